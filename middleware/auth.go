// middleware/auth.go
package middleware

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"questcraft/database"
	"questcraft/models"
)

// JWTSecret returns the signing secret, with a development fallback.
func JWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "questcraft-secret-change-in-production"
	}
	return secret
}

func AuthMiddleware(c *fiber.Ctx) error {
	claims, err := parseBearer(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	c.Locals("userId", claims["user_id"])
	c.Locals("username", claims["username"])
	c.Locals("role", claims["role"])

	touchLastLogin(claims["user_id"])

	return c.Next()
}

// AdminAuthMiddleware additionally requires the admin role.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, err := parseBearer(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	role, _ := claims["role"].(string)
	if role != models.RoleAdmin {
		return c.Status(403).JSON(fiber.Map{"error": "Access denied. Admin privileges required."})
	}

	c.Locals("userId", claims["user_id"])
	c.Locals("username", claims["username"])
	c.Locals("role", role)

	return c.Next()
}

func parseBearer(c *fiber.Ctx) (jwt.MapClaims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fiber.NewError(401, "Missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fiber.NewError(401, "Invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(401, "Invalid signing method")
		}
		return []byte(JWTSecret()), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.NewError(401, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.NewError(401, "Invalid token claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, fiber.NewError(401, "Token expired")
	}

	return claims, nil
}

func GetUserID(c *fiber.Ctx) (uint, error) {
	userID := c.Locals("userId")
	if userID == nil {
		return 0, fiber.NewError(401, "User not authenticated")
	}

	if id, ok := userID.(float64); ok {
		return uint(id), nil
	}
	if id, ok := userID.(uint); ok {
		return id, nil
	}

	return 0, fiber.NewError(401, "Invalid user ID format")
}

// At most one last_login write per user per interval.
const lastLoginTouchInterval = 5 * time.Minute

var (
	lastLoginMu      sync.Mutex
	lastLoginTouched = map[uint]time.Time{}
)

// shouldTouchLastLogin marks the user as touched and reports whether the
// previous touch is stale enough to warrant a DB write.
func shouldTouchLastLogin(userID uint, now time.Time) bool {
	lastLoginMu.Lock()
	defer lastLoginMu.Unlock()

	if last, ok := lastLoginTouched[userID]; ok && now.Sub(last) < lastLoginTouchInterval {
		return false
	}
	lastLoginTouched[userID] = now
	return true
}

// touchLastLogin records that the bearer was seen; best-effort.
func touchLastLogin(userID interface{}) {
	id, ok := userID.(float64)
	if !ok {
		return
	}
	now := time.Now().UTC()
	if !shouldTouchLastLogin(uint(id), now) {
		return
	}
	database.GetDB().Model(&models.User{}).
		Where("id = ?", uint(id)).
		Update("last_login", now)
}
