package security

import (
	"github.com/golang-jwt/jwt/v5"
)

// OperatorClaims 运营后台 Token 中携带的业务信息
type OperatorClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
