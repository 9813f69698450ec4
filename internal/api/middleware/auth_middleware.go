package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/api/respond"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

const (
	AuthorizationHeaderKey  = "Authorization"
	AuthorizationTypeBearer = "Bearer"
	UserIDKey               = "userID"
	UserRoleKey             = "userRole"
	UsernameKey             = "username"
)

type AuthMiddleware struct {
	authService *service.AuthService
	log         *zap.Logger
}

func NewAuthMiddleware(authService *service.AuthService, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{authService: authService, log: log}
}

// Authenticate validates the bearer JWT and stores the caller's id, role and
// username on the context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeaderKey)
		if authHeader == "" {
			respond.Abort(c, apperror.NewUnauthorized("missing authorization header").WithCode("UNAUTHORIZED"))
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 || !strings.EqualFold(fields[0], AuthorizationTypeBearer) {
			respond.Abort(c, apperror.NewUnauthorized("invalid authorization header format").WithCode("UNAUTHORIZED"))
			return
		}

		_, claims, err := m.authService.ValidateToken(fields[1])
		if err != nil {
			respond.Abort(c, apperror.Wrap(apperror.Unauthorized, err, "invalid or expired token").WithCode("UNAUTHORIZED"))
			return
		}

		sub, okSub := claims["sub"].(string)
		role, okRole := claims["role"].(string)
		username, okUsername := claims["username"].(string)
		userID, err := strconv.Atoi(sub)
		if !okSub || !okRole || !okUsername || err != nil {
			respond.Abort(c, apperror.NewUnauthorized("token carries invalid user claims").WithCode("UNAUTHORIZED"))
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UserRoleKey, role)
		c.Set(UsernameKey, username)
		c.Next()
	}
}

// AuthorizeRole lets the request through only for the listed roles.
func (m *AuthMiddleware) AuthorizeRole(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(UserRoleKey)
		if userRole == "" {
			m.log.Warn("role check without authenticated user", zap.String("path", c.FullPath()))
			respond.Abort(c, apperror.NewForbidden("access denied").WithCode("FORBIDDEN"))
			return
		}

		for _, reqRole := range requiredRoles {
			if userRole == reqRole {
				c.Next()
				return
			}
		}

		m.log.Info("access denied",
			zap.String("role", userRole),
			zap.Strings("required", requiredRoles),
			zap.String("path", c.FullPath()))
		respond.Abort(c, apperror.NewForbidden("role %s may not access this resource", userRole).WithCode("FORBIDDEN"))
	}
}

// UserID is the authenticated caller's id, or 0.
func UserID(c *gin.Context) int {
	return c.GetInt(UserIDKey)
}
