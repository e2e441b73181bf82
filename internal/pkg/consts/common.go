package consts

// 角色
const (
	RoleAuthor     = "AUTHOR"
	RoleReader     = "READER"
	RoleContentMod = "CONTENT_MOD"
	RoleOpsMod     = "OPS_MOD"
	RoleAdmin      = "ADMIN"
)

// Context key
const (
	UserIDKey = "user_id"
	RolesKey  = "roles"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// 对象存储中章节正文的前缀
const ChapterContentPrefix = "chapters/"
