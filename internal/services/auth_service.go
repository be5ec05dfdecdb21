package services

import (
	"context"

	"cuponera_backend/internal/auth"
	"cuponera_backend/internal/logger"
	"cuponera_backend/internal/models"
	"cuponera_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// UserStore is implemented by repositories.UserRepository.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthService handles operator accounts: login, registration of business
// owners and staff, and token issuing.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// AuthResult is a successful login or registration.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login checks credentials and issues a token. The same error covers an
// unknown phone and a wrong password.
func (s *AuthService) Login(ctx context.Context, phone, password string) (*AuthResult, error) {
	user, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "operator logged in", "user_id", user.ID, "role", user.Role)
	return &AuthResult{Token: token, User: user}, nil
}

// Register creates an operator account tied to a business. Superadmins are
// seeded at migration time, never registered through this path.
func (s *AuthService) Register(ctx context.Context, name, phone, password string, role models.UserRole, businessID *string) (*AuthResult, error) {
	if role == models.UserRoleSuperadmin {
		return nil, apperrors.ErrInsufficientRole
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	if _, err := s.users.FindByPhone(ctx, phone); err == nil {
		return nil, apperrors.ErrConflict("auth", "phone already registered")
	} else if err != gorm.ErrRecordNotFound {
		return nil, apperrors.InternalError(err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         name,
		Phone:        phone,
		PasswordHash: hash,
		Role:         role,
		BusinessID:   businessID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Me loads the account behind a validated token.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrNotFoundWrap(err, "auth", "Account not found")
	}
	return user, nil
}
