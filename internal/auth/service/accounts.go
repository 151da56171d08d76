package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"interior-planner/internal/auth/models"
	"interior-planner/internal/auth/repository"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// ============================================================
// Accounts
// ============================================================

// Accounts — регистрация, вход и смена пароля поверх Repository.
type Accounts struct {
	repo *repository.Repository
	cost int
}

func NewAccounts(repo *repository.Repository) *Accounts {
	return &Accounts{repo: repo, cost: bcrypt.DefaultCost}
}

// WithCost меняет стоимость bcrypt (в тестах — bcrypt.MinCost).
func (a *Accounts) WithCost(cost int) *Accounts {
	a.cost = cost
	return a
}

func (a *Accounts) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := a.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login не различает «нет пользователя» и «неверный пароль».
func (a *Accounts) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := a.repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (a *Accounts) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := a.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	if len(next) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), a.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return a.repo.UpdatePassword(ctx, userID, string(hash))
}

// EnsureAdmin создаёт администратора или повышает существующего пользователя.
func (a *Accounts) EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	u, err := a.repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return a.Register(ctx, name, email, password, models.RoleAdmin)
	}
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleAdmin {
		if err := a.repo.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
			return nil, err
		}
		u.Role = models.RoleAdmin
	}
	return u, nil
}
