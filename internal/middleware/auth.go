package middleware

import (
	"errors"
	"strings"

	"edu_platform_backend/internal/config"
	"edu_platform_backend/internal/model"
	"edu_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// IdentityResolver resolves a credential subject to a stored identity.
// Satisfied by repository.UserRepository.
type IdentityResolver interface {
	FindByID(id uint) (*model.User, error)
}

// AuthMiddleware is the authorization gate: it extracts the bearer
// credential, verifies it, resolves the subject, and stores both the claims
// and the identity on the request context. Verification errors propagate
// unchanged so 401 bodies distinguish missing, tampered, and expired tokens.
func AuthMiddleware(cfg *config.Config, resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c, util.ErrMissingCredential.Error())
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		identity, err := resolver.FindByID(claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Unauthorized(c, util.ErrUnknownSubject.Error())
			} else {
				util.LogInternalError(c, err)
			}
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Set("identity", identity)
		c.Next()
	}
}

// RoleMiddleware rejects authenticated requests whose resolved role is not
// in the allowed set. This is a 403, never a 401.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c, util.ErrMissingCredential.Error())
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range roles {
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

type UserActivityRepo interface {
	UpdateLastSeen(userID uint) error
}

// ActivityMiddleware records LastSeen for authenticated requests. The update
// is asynchronous and feeds the inactivity alerting only.
func ActivityMiddleware(repo UserActivityRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims != nil {
			go repo.UpdateLastSeen(claims.UserID)
		}
		c.Next()
	}
}
