package handler

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/service"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
)

var moderatorRoles = []string{consts.RoleContentMod, consts.RoleOpsMod, consts.RoleAdmin}

// pathID 解析路径中的数字 ID
func pathID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, service.ErrParamInvalid
	}
	return id, nil
}

// viewerOf 当前调用方，未登录时 UserID 为 0
func viewerOf(c *gin.Context) *service.Viewer {
	roles := c.GetStringSlice(consts.RolesKey)
	moderator := false
	for _, role := range moderatorRoles {
		if slices.Contains(roles, role) {
			moderator = true
			break
		}
	}
	return &service.Viewer{
		UserID:    c.GetUint64(consts.UserIDKey),
		Moderator: moderator,
	}
}
