package devserver

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/loanwise/client/internal/logging"
)

// Server owns the store and the handler set. One Server backs one fiber app.
type Server struct {
	cfg   *Config
	store *Store
	log   logging.Logger
}

func NewServer(cfg *Config, log logging.Logger) *Server {
	return &Server{cfg: cfg, store: NewStore(), log: log}
}

// App builds the fiber application with all routes mounted under /api.
//
// Route order matters in the loan group: /loan/user/:userId must be
// registered before /loan/:id, otherwise "user" is captured as an
// application id.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{AppName: "Loanwise devserver"})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", s.handleRegister)
	auth.Post("/login", s.handleLogin)
	auth.Get("/profile", s.requireAuth, s.handleProfile)

	loan := api.Group("/loan", s.requireAuth)
	loan.Post("/submit", s.handleSubmit)
	loan.Get("/user/:userId", s.handleApplicationsForUser)
	loan.Get("/:id", s.handleApplication)
	loan.Get("/:id/validation-result", s.handleValidationResult)
	loan.Post("/:id/request-approval", s.handleRequestApproval)

	return app
}

// requireAuth validates the bearer token and stashes the user id in the
// request locals.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return fail(c, fiber.StatusUnauthorized, "Access token required")
	}

	id, err := ParseToken(s.cfg.JWTSecret, strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid access token")
	}

	c.Locals("userID", id)
	return c.Next()
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}
