package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"complaint-portal/shared/pkg/token"
)

type contextKey string

const claimsKey contextKey = "claims"

const roleAdmin = "admin"

type TokenParser interface {
	Parse(tokenString string) (*token.Claims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Auth verifies access tokens locally with the secret shared with auth-service.
type Auth struct {
	tokens  TokenParser
	revoked RevocationChecker
	log     *logrus.Entry
}

func NewAuth(tokens TokenParser, revoked RevocationChecker, log *logrus.Entry) *Auth {
	return &Auth{tokens: tokens, revoked: revoked, log: log}
}

func (a *Auth) claims(r *http.Request) (*token.Claims, error) {
	claims, err := a.tokens.Parse(token.FromHeader(r.Header.Get("Authorization")))
	if err != nil {
		return nil, err
	}

	if a.revoked != nil {
		revoked, err := a.revoked.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, token.ErrInvalid
		}
	}

	return claims, nil
}

// Identify attaches the caller's claims when a valid token is sent.
// Anonymous and invalid tokens pass through without claims.
func (a *Auth) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.claims(r)
		if err != nil {
			if !isTokenError(err) {
				a.log.WithError(err).Warn("token check failed, treating caller as anonymous")
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// RequireAdmin rejects callers without a valid admin token.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.claims(r)
		switch {
		case isTokenError(err):
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			return
		case err != nil:
			a.log.WithError(err).Error("token check failed")
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			return
		case claims.Role != roleAdmin:
			writeError(w, http.StatusForbidden, "FORBIDDEN", "user role "+claims.Role+" is not authorized to access this route")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func isTokenError(err error) bool {
	return errors.Is(err, token.ErrMissing) || errors.Is(err, token.ErrInvalid)
}

func ClaimsFrom(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	return claims, ok
}

// IsAdmin reports whether the request was made with an admin token.
func IsAdmin(ctx context.Context) bool {
	claims, ok := ClaimsFrom(ctx)
	return ok && claims.Role == roleAdmin
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"code":    code,
		"error":   message,
	})
}
