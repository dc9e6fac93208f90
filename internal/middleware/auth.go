package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"sacra/pkg/response"
	"sacra/pkg/token"

	"github.com/gin-gonic/gin"
)

// Keys under which the authenticated identity is stored on the gin context
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextRole     = "userRole"
)

const AccessTokenCookie = "access_token"

const defaultPermCacheTTL = 5 * time.Minute

// PermissionResolver loads the permission codes granted to a role.
type PermissionResolver interface {
	GetPermissionsByRoleName(ctx context.Context, roleName string) ([]string, error)
}

// permCacheEntry stores cached permission codes for a role with TTL
type permCacheEntry struct {
	codes     []string
	expiresAt time.Time
}

// Auth validates access tokens and guards routes by role or permission.
type Auth struct {
	tokens        *token.Manager
	perms         PermissionResolver
	secureCookies bool

	permCache    sync.Map // roleName -> permCacheEntry
	permCacheTTL time.Duration
	now          func() time.Time
}

// NewAuth builds the guards. secureCookies switches the session cookie to
// Secure + SameSite=None for cross-origin production front-ends.
func NewAuth(tokens *token.Manager, perms PermissionResolver, secureCookies bool) *Auth {
	return &Auth{
		tokens:        tokens,
		perms:         perms,
		secureCookies: secureCookies,
		permCacheTTL:  defaultPermCacheTTL,
		now:           time.Now,
	}
}

// SetTokenCookie stores the access token as an HttpOnly cookie
func (a *Auth) SetTokenCookie(c *gin.Context, accessToken string) {
	a.setCookie(c, accessToken, int(a.tokens.TTL().Seconds()))
}

// ClearTokenCookie removes the access token cookie
func (a *Auth) ClearTokenCookie(c *gin.Context) {
	a.setCookie(c, "", -1)
}

func (a *Auth) setCookie(c *gin.Context, value string, maxAge int) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	if a.secureCookies {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(AccessTokenCookie, value, maxAge, "/", "", a.secureCookies, true)
}

// authenticate reads the token from the cookie, falling back to the
// Authorization header, and stores the identity on the context.
func (a *Auth) authenticate(c *gin.Context) (*token.Claims, bool) {
	tokenString, cookieErr := c.Cookie(AccessTokenCookie)
	if cookieErr != nil || tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return nil, false
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
			return nil, false
		}
		tokenString = parts[1]
	}

	claims, err := a.tokens.Parse(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
		return nil, false
	}

	c.Set(ContextUserID, claims.UserID())
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextRole, claims.Role)
	return claims, true
}

// RequireAuth accepts any valid token.
func (a *Auth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := a.authenticate(c); !ok {
			return
		}
		c.Next()
	}
}

// RequireRole validates the token and checks the role against allowedRoles
func (a *Auth) RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := a.authenticate(c)
		if !ok {
			return
		}

		for _, role := range allowedRoles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
	}
}

// RequirePermission validates the token and checks that the user's role
// holds every one of requiredPerms.
func (a *Auth) RequirePermission(requiredPerms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := a.authenticate(c)
		if !ok {
			return
		}

		userPerms, err := a.PermissionsForRole(c.Request.Context(), claims.Role)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to verify permissions"))
			return
		}

		permSet := make(map[string]bool, len(userPerms))
		for _, p := range userPerms {
			permSet[p] = true
		}
		for _, required := range requiredPerms {
			if !permSet[required] {
				c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: missing permission '"+required+"'"))
				return
			}
		}

		c.Next()
	}
}

// PermissionsForRole returns cached or freshly loaded permission codes.
func (a *Auth) PermissionsForRole(ctx context.Context, roleName string) ([]string, error) {
	if entry, ok := a.permCache.Load(roleName); ok {
		cached := entry.(permCacheEntry)
		if a.now().Before(cached.expiresAt) {
			return cached.codes, nil
		}
	}

	codes, err := a.perms.GetPermissionsByRoleName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	a.permCache.Store(roleName, permCacheEntry{
		codes:     codes,
		expiresAt: a.now().Add(a.permCacheTTL),
	})
	return codes, nil
}

// ClearPermissionCache drops cached permissions for roleName, or for every
// role when roleName is empty.
func (a *Auth) ClearPermissionCache(roleName string) {
	if roleName != "" {
		a.permCache.Delete(roleName)
		return
	}
	a.permCache.Range(func(key, _ interface{}) bool {
		a.permCache.Delete(key)
		return true
	})
}
