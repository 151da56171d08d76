package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"interior-planner/internal/auth/models"
	"interior-planner/internal/auth/repository"
	"interior-planner/internal/auth/service"
	"interior-planner/internal/common/middleware"
	"interior-planner/internal/common/token"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Auth Handler
// ============================================================

type AuthHandler struct {
	repo     *repository.Repository
	accounts *service.Accounts
	tokens   *token.Manager
	logger   *log.Logger
}

func NewAuthHandler(repo *repository.Repository, accounts *service.Accounts, tokens *token.Manager, logger *log.Logger) *AuthHandler {
	return &AuthHandler{
		repo:     repo,
		accounts: accounts,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register подключает маршруты сервиса.
func (h *AuthHandler) Register(app fiber.Router) {
	auth := middleware.Auth(h.tokens)

	app.Post("/signup", h.Signup)
	app.Post("/login", h.Login)
	app.Get("/user", auth, h.GetUser)
	app.Put("/profile", auth, h.UpdateProfile)
	app.Put("/password", auth, h.UpdatePassword)
	app.Delete("/account", auth, h.DeleteAccount)
	app.Get("/admin/users", auth, middleware.AdminOnly(), h.ListUsers)
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup регистрирует пользователя с ролью user и сразу выдаёт токен.
func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req signupRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "name, email and password required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := h.accounts.Register(ctx, req.Name, req.Email, req.Password, models.RoleUser)
	switch {
	case errors.Is(err, repository.ErrEmailTaken):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "user already exists"})
	case errors.Is(err, service.ErrWeakPassword):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		h.logger.Error("signup", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}

	h.logger.Info("user registered", "user", user.ID)
	return h.respondWithToken(c, http.StatusCreated, user)
}

// Login выдаёт токен по паре email/password.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "email and password required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := h.accounts.Login(ctx, req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}
	if err != nil {
		h.logger.Error("login", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) GetUser(c fiber.Ctx) error {
	user, err := h.repo.GetByID(context.Background(), middleware.Claims(c).UserID)
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	return c.JSON(user)
}

type profileRequest struct {
	Name           *string `json:"name"`
	ProfilePicture *string `json:"profilePicture"`
}

// UpdateProfile меняет только переданные поля.
func (h *AuthHandler) UpdateProfile(c fiber.Ctx) error {
	var req profileRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	ctx := context.Background()
	user, err := h.repo.GetByID(ctx, middleware.Claims(c).UserID)
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}

	if err := h.repo.UpdateProfile(ctx, user.ID, user.Name, user.ProfilePicture); err != nil {
		h.logger.Error("update profile", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(user)
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AuthHandler) UpdatePassword(c fiber.Ctx) error {
	var req passwordRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	err := h.accounts.ChangePassword(context.Background(), middleware.Claims(c).UserID, req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "current password is incorrect"})
	case errors.Is(err, service.ErrWeakPassword):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	case err != nil:
		h.logger.Error("update password", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(fiber.Map{"message": "password updated"})
}

// TODO: удалять проекты пользователя в planner через внутренний endpoint.
func (h *AuthHandler) DeleteAccount(c fiber.Ctx) error {
	err := h.repo.Delete(context.Background(), middleware.Claims(c).UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	if err != nil {
		h.logger.Error("delete account", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(fiber.Map{"message": "account deleted"})
}

func (h *AuthHandler) ListUsers(c fiber.Ctx) error {
	users, err := h.repo.List(context.Background())
	if err != nil {
		h.logger.Error("list users", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(users)
}

// ============================================================
// Helpers
// ============================================================

func (h *AuthHandler) respondWithToken(c fiber.Ctx, status int, user *models.User) error {
	signed, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		h.logger.Error("issue token", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.Status(status).JSON(authResponse{Token: signed, User: user})
}

var (
	errEmptyBody   = errors.New("empty body")
	errInvalidJSON = errors.New("invalid json")
)

func decode(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return errInvalidJSON
	}
	return nil
}

func badRequest(c fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}
