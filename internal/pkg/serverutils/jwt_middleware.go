package serverutils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const UserIDLocal = "user_id"

var (
	secretMu  sync.RWMutex
	jwtSecret string
)

// SetJwtSecret overrides the JWT_SECRET environment variable.
func SetJwtSecret(secret string) {
	secretMu.Lock()
	defer secretMu.Unlock()
	jwtSecret = secret
}

func secret() []byte {
	secretMu.RLock()
	defer secretMu.RUnlock()
	if jwtSecret != "" {
		return []byte(jwtSecret)
	}
	return []byte(os.Getenv("JWT_SECRET"))
}

// ParseUserID validates an HS256 token and returns its user_id claim.
func ParseUserID(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret(), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("missing user_id claim")
	}
	return userID, nil
}

// SignUserToken issues a token the middlewares accept. Used by tests and
// the replay tool; account login itself lives outside this service.
func SignUserToken(userID string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userID}).SignedString(secret())
}

func bearer(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return authHeader[7:]
}

func JwtMiddleware(ctx *fiber.Ctx) error {
	tokenStr := bearer(ctx)
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
	}

	userID, err := ParseUserID(tokenStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	ctx.Locals(UserIDLocal, userID)
	return ctx.Next()
}

// OptionalJwtMiddleware sets user_id when a valid token is present (header or
// ?token= for websocket upgrades) and lets anonymous requests through.
func OptionalJwtMiddleware(ctx *fiber.Ctx) error {
	tokenStr := bearer(ctx)
	if tokenStr == "" {
		tokenStr = ctx.Query("token")
	}
	if tokenStr != "" {
		if userID, err := ParseUserID(tokenStr); err == nil {
			ctx.Locals(UserIDLocal, userID)
		}
	}
	return ctx.Next()
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(ctx *fiber.Ctx) string {
	userID, _ := ctx.Locals(UserIDLocal).(string)
	return userID
}
