package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/flastal/flastal-backend/internal/models"
	"github.com/flastal/flastal-backend/internal/pkg/apperror"
	"github.com/flastal/flastal-backend/internal/repository"
	"github.com/flastal/flastal-backend/internal/validation"
)

type UserRepo interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type FloristRepo interface {
	Create(ctx context.Context, florist *models.Florist) (*models.Florist, error)
	GetByEmail(ctx context.Context, email string) (*models.Florist, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Florist, error)
}

// AuthService handles registration and login for both account tables.
// Fans and admins live in users; florists have their own table and a
// review gate before they may sign in.
type AuthService struct {
	users    UserRepo
	florists FloristRepo
	tokens   *TokenManager
}

func NewAuthService(users UserRepo, florists FloristRepo, tokens *TokenManager) *AuthService {
	return &AuthService{users: users, florists: florists, tokens: tokens}
}

type RegisterFanInput struct {
	Email      string
	Password   string
	HandleName string
}

type RegisterFloristInput struct {
	Email        string
	Password     string
	ShopName     string
	PlatformName string
}

type LoginInput struct {
	Email    string
	Password string
}

type FanAuthResult struct {
	User      *models.User
	TokenPair *TokenPair
}

type FloristAuthResult struct {
	Florist   *models.Florist
	TokenPair *TokenPair
}

// RegisterFan creates a fan account and signs it in.
func (s *AuthService) RegisterFan(ctx context.Context, in RegisterFanInput) (*FanAuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("handle name", in.HandleName, validation.MinHandleNameLength, validation.MaxHandleNameLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		HandleName:   strings.TrimSpace(in.HandleName),
		Role:         models.RoleFan,
	})
	if errors.Is(err, repository.ErrEmailTaken) {
		return nil, apperror.New(apperror.ErrCodeConflict, "email already registered")
	}
	if err != nil {
		return nil, err
	}

	pair, err := s.tokens.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &FanAuthResult{User: user, TokenPair: pair}, nil
}

// RegisterFlorist creates a florist account in PENDING status. The
// account cannot sign in until an admin approves it.
func (s *AuthService) RegisterFlorist(ctx context.Context, in RegisterFloristInput) (*models.Florist, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("shop name", in.ShopName, validation.MinShopNameLength, validation.MaxShopNameLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	florist, err := s.florists.Create(ctx, &models.Florist{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		ShopName:     strings.TrimSpace(in.ShopName),
		PlatformName: strings.TrimSpace(in.PlatformName),
	})
	if errors.Is(err, repository.ErrEmailTaken) {
		return nil, apperror.New(apperror.ErrCodeConflict, "email already registered")
	}
	if err != nil {
		return nil, err
	}
	return florist, nil
}

// LoginFan authenticates against the users table (fans and admins).
func (s *AuthService) LoginFan(ctx context.Context, in LoginInput) (*FanAuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "invalid email or password")
	}

	pair, err := s.tokens.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &FanAuthResult{User: user, TokenPair: pair}, nil
}

// LoginFlorist authenticates against the florists table. Accounts that
// have not passed review yet are rejected with the review status in the
// message.
func (s *AuthService) LoginFlorist(ctx context.Context, in LoginInput) (*FloristAuthResult, error) {
	florist, err := s.florists.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(florist.PasswordHash), []byte(in.Password)) != nil {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "invalid email or password")
	}

	switch florist.Status {
	case models.AccountStatusApproved:
	case models.AccountStatusPending:
		return nil, apperror.New(apperror.ErrCodeForbidden, "account is pending review")
	default:
		return nil, apperror.New(apperror.ErrCodeForbidden, "account was not approved")
	}

	pair, err := s.tokens.GeneratePair(florist.ID, models.RoleFlorist)
	if err != nil {
		return nil, err
	}
	return &FloristAuthResult{Florist: florist, TokenPair: pair}, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	actor, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "invalid refresh token")
	}

	// The account must still exist, and a florist must still be approved.
	switch actor.Role {
	case models.RoleFlorist:
		florist, err := s.florists.GetByID(ctx, actor.ID)
		if err != nil {
			return nil, apperror.New(apperror.ErrCodeUnauthorized, "account no longer exists")
		}
		if florist.Status != models.AccountStatusApproved {
			return nil, apperror.New(apperror.ErrCodeForbidden, "account was not approved")
		}
	default:
		if _, err := s.users.GetByID(ctx, actor.ID); err != nil {
			return nil, apperror.New(apperror.ErrCodeUnauthorized, "account no longer exists")
		}
	}

	return s.tokens.GeneratePair(actor.ID, actor.Role)
}

// Me loads the profile behind an access token's actor.
func (s *AuthService) Me(ctx context.Context, actor models.Actor) (interface{}, error) {
	if actor.Role == models.RoleFlorist {
		florist, err := s.florists.GetByID(ctx, actor.ID)
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, apperror.ErrAccountNotFound
		}
		return florist, err
	}
	user, err := s.users.GetByID(ctx, actor.ID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, apperror.ErrAccountNotFound
	}
	return user, err
}
