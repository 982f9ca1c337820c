package handler

import (
	"github.com/gofiber/fiber/v2"

	"quickscan/internal/auth"
	"quickscan/internal/http/middleware"
	"quickscan/internal/model"
)

// Register creates a new account and immediately issues a bearer token.
func Register(users *auth.UserStore, tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
		}
		if errs := req.Validate(); len(errs) > 0 {
			return c.JSON(model.ValidationFail("Validation failed", errs))
		}

		user, err := users.Register(req.Email, req.Password)
		if err != nil {
			return writeMappedError(c, err)
		}

		token, expiresAt, err := tokens.Issue(user)
		if err != nil {
			return writeMappedError(c, err)
		}

		return c.JSON(model.OK(model.AuthResponse{
			User:      user,
			Token:     token,
			ExpiresAt: expiresAt,
		}, "User registered successfully"))
	}
}

// Login verifies credentials and issues a bearer token.
func Login(users *auth.UserStore, tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
		}
		if errs := req.Validate(); len(errs) > 0 {
			return c.JSON(model.ValidationFail("Validation failed", errs))
		}

		user, err := users.Authenticate(req.Email, req.Password)
		if err != nil {
			return writeMappedError(c, err)
		}

		token, expiresAt, err := tokens.Issue(user)
		if err != nil {
			return writeMappedError(c, err)
		}

		return c.JSON(model.OK(model.AuthResponse{
			User:      user,
			Token:     token,
			ExpiresAt: expiresAt,
		}, "Login successful"))
	}
}

// TokenLogin authenticates a service/demo caller by static token and
// issues a regular bearer token for a fabricated identity.
func TokenLogin(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.TokenLoginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
		}
		if errs := req.Validate(); len(errs) > 0 {
			return c.JSON(model.ValidationFail("Validation failed", errs))
		}

		user, err := tokens.AuthenticateStatic(req.Token)
		if err != nil {
			return writeMappedError(c, err)
		}

		token, expiresAt, err := tokens.Issue(user)
		if err != nil {
			return writeMappedError(c, err)
		}

		return c.JSON(model.OK(model.AuthResponse{
			User:      user,
			Token:     token,
			ExpiresAt: expiresAt,
		}, "Token authentication successful"))
	}
}

// VerifyToken validates a bearer token and returns its user.
func VerifyToken(users *auth.UserStore, tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.VerifyTokenRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
		}
		if errs := req.Validate(); len(errs) > 0 {
			return c.JSON(model.ValidationFail("Validation failed", errs))
		}

		claims, err := tokens.Validate(req.Token)
		if err != nil {
			return writeMappedError(c, err)
		}

		user, err := users.GetByID(claims.Subject)
		if err != nil {
			return writeMappedError(c, err)
		}

		return c.JSON(model.OK(user, "Token is valid"))
	}
}

// CurrentUser returns the account behind the validated bearer token.
// Requires the BearerAuth middleware.
func CurrentUser(users *auth.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := middleware.ClaimsFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "authentication_error", "missing token claims")
		}

		user, err := users.GetByID(claims.Subject)
		if err != nil {
			return writeMappedError(c, err)
		}

		return c.JSON(model.OK(user, "User information retrieved successfully"))
	}
}
