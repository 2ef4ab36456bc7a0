package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clientback/internal/models"
	"clientback/internal/repositories"
	"clientback/pkg/utils"
)

// --- Data Transfer Objects (DTOs) ---

// RegisterUserRequest DTO
type RegisterUserRequest struct {
	Name        string  `json:"name" binding:"max=255"`
	Surname     string  `json:"surname" binding:"max=255"`
	Email       string  `json:"email" binding:"required,email,max=255"`
	Password    string  `json:"password"`
	MobilePhone *string `json:"mobilePhone" binding:"omitempty,max=50"`
}

// UpdateUserRequest DTO. It replaces the whole profile: an omitted mobilePhone clears it,
// an omitted password keeps the current one.
type UpdateUserRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Surname     string  `json:"surname" binding:"required,max=255"`
	Email       string  `json:"email" binding:"required,email,max=255"`
	Password    *string `json:"password"`
	MobilePhone *string `json:"mobilePhone" binding:"omitempty,max=50"`
}

// TokenIssuer signs access tokens for a subject email.
type TokenIssuer interface {
	GenerateToken(email string) (string, error)
}

// --- AccountService Interface ---
type AccountService interface {
	Register(ctx context.Context, req RegisterUserRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Update(ctx context.Context, principal models.Principal, userID int64, req UpdateUserRequest) (*models.User, error)
	Profile(ctx context.Context, principal models.Principal) (*models.User, error)
}

type accountService struct {
	users  repositories.UserRepository
	hasher utils.PasswordHasher
	tokens TokenIssuer
	now    func() time.Time
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(users repositories.UserRepository, hasher utils.PasswordHasher, tokens TokenIssuer) AccountService {
	return &accountService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

// Register creates a new account. The email check runs before the password check.
func (s *accountService) Register(ctx context.Context, req RegisterUserRequest) (*models.User, error) {
	email := strings.TrimSpace(req.Email)
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}
	if !utils.IsValidPasswordLength(req.Password, utils.MinPasswordLength) {
		return nil, ErrInvalidPassword
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		Name:             strings.TrimSpace(req.Name),
		Surname:          strings.TrimSpace(req.Surname),
		Email:            email,
		PasswordHash:     hash,
		MobilePhone:      utils.NormalizeOptional(req.MobilePhone),
		CreationDate:     now,
		ModificationDate: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if conflict := userConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and returns a signed token whose subject is the email.
func (s *accountService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("login attempt failed: %w", err)
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, nil
}

// Update overwrites the profile of userID, which must be the principal's own account.
func (s *accountService) Update(ctx context.Context, principal models.Principal, userID int64, req UpdateUserRequest) (*models.User, error) {
	if principal.IsZero() {
		return nil, ErrAuthenticationRequired
	}
	if req.Password != nil && !utils.IsValidPasswordLength(*req.Password, utils.MinPasswordLength) {
		return nil, ErrInvalidPassword
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user.Email != principal.Email {
		return nil, ErrForbidden
	}

	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.Name = strings.TrimSpace(req.Name)
	user.Surname = strings.TrimSpace(req.Surname)
	user.Email = strings.TrimSpace(req.Email)
	user.MobilePhone = utils.NormalizeOptional(req.MobilePhone)
	user.Touch(s.now())

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if conflict := userConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("failed to update user %d: %w", userID, err)
	}
	return user, nil
}

// Profile returns the principal's own account.
func (s *accountService) Profile(ctx context.Context, principal models.Principal) (*models.User, error) {
	if principal.IsZero() {
		return nil, ErrAuthenticationRequired
	}
	user, err := s.users.FindByEmail(ctx, principal.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return user, nil
}

// userConflict maps unique constraint violations on users to service errors; nil if err is not one.
func userConflict(err error) error {
	switch {
	case repositories.IsConstraintViolation(err, repositories.ConstraintUserEmail):
		return ErrUserAlreadyExists
	case repositories.IsConstraintViolation(err, repositories.ConstraintUserMobilePhone):
		return ErrMobilePhoneExists
	case errors.Is(err, repositories.ErrDuplicateKey):
		return ErrUserAlreadyExists
	}
	return nil
}
