package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"labloan-backend/internal/directory"
)

const (
	CtxUserIDKey     = "user_id"
	CtxRoleKey       = "role"
	CtxNameKey       = "user_name"
	CtxIdentifierKey = "user_identifier"

	codeUnauthenticated = "UNAUTHENTICATED"
	codeForbidden       = "FORBIDDEN"
)

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": msg}})
}

// RequireAuth validates "Authorization: Bearer <token>" and stores the claims in the gin context.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			abort(c, http.StatusUnauthorized, codeUnauthenticated, "missing Authorization header")
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, http.StatusUnauthorized, codeUnauthenticated, "invalid Authorization header")
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			abort(c, http.StatusUnauthorized, codeUnauthenticated, "empty token")
			return
		}

		// HS256 only; rejects alg=none and key confusion
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
		if err != nil || token == nil || !token.Valid {
			abort(c, http.StatusUnauthorized, codeUnauthenticated, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abort(c, http.StatusUnauthorized, codeUnauthenticated, "invalid claims")
			return
		}

		sub, _ := claims[claimSub].(string)
		if _, err := strconv.ParseInt(sub, 10, 64); err != nil || sub == "" {
			abort(c, http.StatusUnauthorized, codeUnauthenticated, "invalid sub")
			return
		}

		role, _ := claims[claimRole].(string)
		name, _ := claims[claimName].(string)
		idf, _ := claims[claimIdentifier].(string)

		c.Set(CtxUserIDKey, sub)
		c.Set(CtxRoleKey, role)
		c.Set(CtxNameKey, name)
		c.Set(CtxIdentifierKey, idf)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{})
	for _, r := range roles {
		if r == "" {
			continue
		}
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(CtxRoleKey)
		if role == "" {
			abort(c, http.StatusForbidden, codeForbidden, "missing role")
			return
		}
		if _, allowed := roleSet[role]; !allowed {
			abort(c, http.StatusForbidden, codeForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

// PrincipalFrom rebuilds the caller's identity from a context populated by RequireAuth.
// Program is left empty; services re-read it from the directory.
func PrincipalFrom(c *gin.Context) (directory.Identity, bool) {
	id, err := strconv.ParseInt(c.GetString(CtxUserIDKey), 10, 64)
	if err != nil || id <= 0 {
		return directory.Identity{}, false
	}
	return directory.Identity{
		ID:         id,
		Identifier: c.GetString(CtxIdentifierKey),
		Name:       c.GetString(CtxNameKey),
		Role:       c.GetString(CtxRoleKey),
	}, true
}
