package middleware

import (
	"net/http"
	"strings"

	"resto_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format. Use Bearer <token>"})
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
			c.Abort()
			return
		}

		// Set user information in the context for downstream handlers
		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("userRole", claims.Role)

		c.Next()
	}
}

// Actions gated by the permission policy table.
const (
	ActionManagePersonnel    = "personnel"
	ActionManageInventory    = "inventory"
	ActionManageAccounting   = "accounting"
	ActionManageReservations = "reservations"
	ActionManageOrders       = "orders"
	ActionViewAnalytics      = "analytics"
	ActionManageUsers        = "users"
)

// policy maps an action to the roles allowed to perform it. Resolved only
// here, at the access-control boundary; handlers and models carry no role
// logic.
var policy = map[string][]string{
	ActionManagePersonnel:    {"ADMIN", "MANAGER"},
	ActionManageInventory:    {"ADMIN", "MANAGER", "CHEF"},
	ActionManageAccounting:   {"ADMIN", "ACCOUNTANT"},
	ActionManageReservations: {"ADMIN", "MANAGER", "RECEPTIONIST"},
	ActionManageOrders:       {"ADMIN", "MANAGER", "WAITER", "CHEF", "COOK"},
	ActionViewAnalytics:      {"ADMIN", "MANAGER", "ACCOUNTANT"},
	ActionManageUsers:        {"ADMIN"},
}

// RoleAllowed reports whether a role may perform an action.
func RoleAllowed(role, action string) bool {
	for _, r := range policy[action] {
		if strings.EqualFold(role, r) {
			return true
		}
	}
	return false
}

// RequirePermission creates a Gin middleware that authorizes the request
// against the (role, action) policy table. It expects AuthMiddleware to
// have stored the user role in the context.
func RequirePermission(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("userRole")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "User role not found in token claims. Ensure AuthMiddleware runs first."})
			c.Abort()
			return
		}

		roleStr, ok := userRole.(string)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User role in token is not a string"})
			c.Abort()
			return
		}

		if !RoleAllowed(roleStr, action) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource."})
			c.Abort()
			return
		}

		c.Next()
	}
}
