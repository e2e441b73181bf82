package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	JWTIssuer                = "Inkwell"
	JWTExpirationTime        = time.Hour * 24
	defaultJWTSecret  string = "Inkwell"
)

// UserClaims Token 中携带的身份信息
type UserClaims struct {
	UserID uint64   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole 是否拥有任一角色
func (c *UserClaims) HasRole(roles ...string) bool {
	for _, want := range roles {
		for _, got := range c.Roles {
			if want == got {
				return true
			}
		}
	}
	return false
}
