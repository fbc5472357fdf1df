package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/schoolfleet/schoolfleet/pkg/fleet"
	"github.com/schoolfleet/schoolfleet/pkg/util"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type callerClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RequireCaller validates the bearer token issued by the school system's
// authentication service and injects the caller identity into the request
// context. Handlers pass it on to the engine as an explicit argument.
func RequireCaller() fiber.Handler {
	secret := []byte(util.GetEnvironmentVariable("SCHOOLFLEET_JWT_SECRET", ""))

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.SendStatus(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"success": false,
				"message": "Authorization header is required",
			})
		}

		claims := &callerClaims{}
		token, err := jwt.ParseWithClaims(authHeader[7:], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}

			return secret, nil
		})

		if err != nil || !token.Valid {
			c.SendStatus(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"success": false,
				"message": "Invalid token",
			})
		}

		callerID, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			c.SendStatus(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"success": false,
				"message": "Invalid token subject",
			})
		}

		c.Locals("caller", fleet.Caller{
			ID:   callerID,
			Role: claims.Role,
		})

		return c.Next()
	}
}
