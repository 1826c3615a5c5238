package utils

import (
	"context"
	"errors"
	"net/http"

	"complaint-portal/complaint-service/internal/models"
	"complaint-portal/shared/pkg/token"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const principalKey = "principal"

type TokenParser interface {
	Parse(tokenString string) (*token.Claims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type UserLoader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "code": "UNAUTHORIZED", "error": msg})
}

// AuthMiddleware verifies the bearer token, rejects revoked tokens and loads
// the caller from the users collection into the request context.
func AuthMiddleware(tokens TokenParser, revoked RevocationChecker, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := tokens.Parse(token.FromHeader(c.GetHeader("Authorization")))
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "code": "INTERNAL_ERROR", "error": "could not verify token"})
			return
		}
		if isRevoked {
			abortUnauthorized(c, "token has been revoked")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			abortUnauthorized(c, token.ErrInvalid.Error())
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				abortUnauthorized(c, "user no longer exists")
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "code": "INTERNAL_ERROR", "error": "could not load user"})
			return
		}

		if user.Role == models.RoleInstitution && user.ApprovalStatus != models.ApprovalApproved {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "code": "FORBIDDEN", "error": "account is pending approval"})
			return
		}

		SetPrincipal(c, user.Principal())
		c.Next()
	}
}

func SetPrincipal(c *gin.Context, p models.Principal) {
	c.Set(principalKey, p)
}

func PrincipalFrom(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}
