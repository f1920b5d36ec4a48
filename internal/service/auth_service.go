package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"calorista/internal/auth"
	apperrors "calorista/internal/errors"
	"calorista/internal/model"
	"calorista/internal/repository"
)

const bcryptCost = 10

// ProfileUpdate carries the optional fields of a profile update; nil means
// leave unchanged.
type ProfileUpdate struct {
	Email    *string
	Name     *string
	Username *string
}

// AuthService handles registration, login and profile operations.
type AuthService interface {
	Register(ctx context.Context, email, password, name string, username *string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenAuthority
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenAuthority) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates a user with a hashed password and issues a token for it.
// The pre-checks on email and username are best effort; the unique indexes
// are the real guard, so a concurrent duplicate surfaces as a conflict too.
func (s *authService) Register(ctx context.Context, email, password, name string, username *string) (*model.User, string, error) {
	if err := s.checkEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, "", err
	}
	if username != nil {
		if err := s.checkUsernameFree(ctx, *username, uuid.Nil); err != nil {
			return nil, "", err
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Username:     username,
		Name:         name,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", s.classifyDuplicate(ctx, email, uuid.Nil)
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Login authenticates a user and issues a fresh token. An unknown email and a
// wrong password are distinct outcomes on this route.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrUserNotFound
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidPassword
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// GetProfile loads the user for the given id.
func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the provided fields after re-checking uniqueness
// against everyone but the caller.
func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Email != nil && *update.Email != user.Email {
		if err := s.checkEmailFree(ctx, *update.Email, userID); err != nil {
			return nil, err
		}
		user.Email = *update.Email
	}
	if update.Username != nil {
		if err := s.checkUsernameFree(ctx, *update.Username, userID); err != nil {
			return nil, err
		}
		user.Username = update.Username
	}
	if update.Name != nil {
		user.Name = *update.Name
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.classifyDuplicate(ctx, user.Email, userID)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *authService) checkEmailFree(ctx context.Context, email string, selfID uuid.UUID) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("check email: %w", err)
	}
	if existing.ID != selfID {
		return apperrors.ErrEmailTaken
	}
	return nil
}

func (s *authService) checkUsernameFree(ctx context.Context, username string, selfID uuid.UUID) error {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("check username: %w", err)
	}
	if existing.ID != selfID {
		return apperrors.ErrUsernameTaken
	}
	return nil
}

// classifyDuplicate decides which unique index a racing write hit.
func (s *authService) classifyDuplicate(ctx context.Context, email string, selfID uuid.UUID) error {
	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing.ID != selfID {
		return apperrors.ErrEmailTaken
	}
	return apperrors.ErrUsernameTaken
}
