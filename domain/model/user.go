package model

import "github.com/golang-jwt/jwt"

// UserClaims is the JWT payload issued by the identity provider. Subject
// carries the user id; the core trusts it without re-verifying credentials.
type UserClaims struct {
	UserName string `json:"user_name,omitempty"`
	jwt.StandardClaims
}
