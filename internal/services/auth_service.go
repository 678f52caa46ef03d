package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/models"
	"github.com/shettytas/fitquest-web/internal/repository"
	"github.com/shettytas/fitquest-web/pkg/utils"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileInput struct {
	Name      *string `json:"name" validate:"omitempty,min=2"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url"`
}

type AuthService struct {
	users   repository.UserStore
	storage StorageService
}

func NewAuthService(users repository.UserStore, storage StorageService) *AuthService {
	return &AuthService{users: users, storage: storage}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindOrRegister returns the user with the given email, creating it when
// absent. Maintenance commands use it to own seeded records.
func (s *AuthService) FindOrRegister(ctx context.Context, input RegisterInput) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(input.Email))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.Register(ctx, input)
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		input.Name = &trimmed
	}
	if input.Bio != nil {
		trimmed := strings.TrimSpace(*input.Bio)
		input.Bio = &trimmed
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	user, err := s.users.Update(ctx, userID, repository.UpdateUserInput{
		Name:      input.Name,
		Bio:       input.Bio,
		AvatarURL: input.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UploadAvatar stores the file and points the user's avatar at it. The
// previous avatar is removed best-effort once the record is updated.
func (s *AuthService) UploadAvatar(
	ctx context.Context,
	userID uuid.UUID,
	file multipart.File,
	ext string,
) (*models.User, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%s-%d%s", userID, time.Now().UnixNano(), ext)
	avatarURL, err := s.storage.UploadFile(ctx, file, filename, "avatars")
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	user, err := s.users.Update(ctx, userID, repository.UpdateUserInput{AvatarURL: &avatarURL})
	if err != nil {
		cleanupErr := s.storage.DeleteFile(ctx, avatarURL)
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrNotFound
		}
		if cleanupErr != nil {
			return nil, errors.Join(err, fmt.Errorf("cleanup failed: %w", cleanupErr))
		}
		return nil, err
	}

	if current.AvatarURL != nil && *current.AvatarURL != "" && *current.AvatarURL != avatarURL {
		_ = s.storage.DeleteFile(ctx, *current.AvatarURL)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
