package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"sentitube/domain/dto"
	"sentitube/domain/model"
	"sentitube/infrastructure/configuration"
)

// UserIDKey is the gin context key carrying the authenticated user id.
const UserIDKey = "user_id"

// Auth validates the Bearer token and stores the caller's user id in the
// context. The token subject must be the user's UUID.
func Auth() gin.HandlerFunc {
	res := dto.Res{
		ResponseCode:    "401",
		ResponseMessage: "Unauthorized",
	}

	return func(ctx *gin.Context) {
		authorization := ctx.Request.Header.Get("Authorization")
		if authorization == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		parts := strings.SplitN(authorization, "Bearer ", 2)
		if len(parts) != 2 || parts[1] == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		var userClaims model.UserClaims
		token, err := jwt.ParseWithClaims(
			parts[1],
			&userClaims,
			func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(configuration.C.App.SecretKey), nil
			},
		)
		if err != nil || !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		userID, err := uuid.Parse(userClaims.Subject)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		ctx.Set(UserIDKey, userID)
		ctx.Next()
	}
}

// UserID extracts the authenticated user id stored by Auth.
func UserID(ctx *gin.Context) (uuid.UUID, bool) {
	v, ok := ctx.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
