package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"trailbook/internal/users/repository"
	"trailbook/internal/users/validator"
	"trailbook/pkg/auth"
	apperrors "trailbook/pkg/errors"
	"trailbook/pkg/logger"
	"trailbook/pkg/model"
	"trailbook/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
)

const resetTokenTTL = 10 * time.Minute

type UserService interface {
	// FindByID also serves the auth guard's user loading.
	FindByID(ctx context.Context, id string) (*model.User, error)

	Signup(ctx context.Context, creds *model.Credentials) (*model.User, error)
	Authenticate(ctx context.Context, login *model.Login) (*model.User, error)
	CreatePasswordReset(ctx context.Context, email string) (*model.User, string, error)
	ClearResetToken(ctx context.Context, id string) error
	ResetPassword(ctx context.Context, rawToken string, input *model.PasswordReset) (*model.User, error)
	UpdatePassword(ctx context.Context, user *model.User, input *model.PasswordUpdate) error
	UpdateProfile(ctx context.Context, id, name, email string) (*model.User, error)
	Deactivate(ctx context.Context, id string) error

	Normalize(user *model.User)
	Validate(user *model.User) error
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	log       *logger.Logger
}

func NewUserService(repo repository.UserRepository, validator *validator.UserValidator, log *logger.Logger) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		log:       log,
	}
}

func (s *userService) FindByID(ctx context.Context, id string) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Signup creates an account with the user role regardless of what the request
// claimed; privileged roles are granted through the admin endpoints only.
func (s *userService) Signup(ctx context.Context, creds *model.Credentials) (*model.User, error) {
	creds.Name = sanitizer.String(creds.Name)
	creds.Email = sanitizer.String(creds.Email)
	if err := s.validator.Validate(creds); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:     creds.Name,
		Email:    creds.Email,
		Role:     model.RoleUser,
		Password: hash,
	}
	if err := s.repo.Store().Insert(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user signed up", "id", user.ID.Hex())
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, login *model.Login) (*model.User, error) {
	if login.Email == "" || login.Password == "" {
		return nil, apperrors.BadRequest("Please provide email and password!")
	}

	user, err := s.repo.FindByEmail(ctx, login.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("Incorrect email or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, login.Password) {
		return nil, apperrors.Unauthorized("Incorrect email or password")
	}

	return user, nil
}

// CreatePasswordReset issues a one-time token. Only its SHA-256 digest is
// stored; the raw value goes out by email and expires after ten minutes.
func (s *userService) CreatePasswordReset(ctx context.Context, email string) (*model.User, string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperrors.New("There is no user with email address.", http.StatusNotFound)
		}
		return nil, "", err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	rawToken := hex.EncodeToString(raw)

	expires := time.Now().Add(resetTokenTTL)
	if err := s.repo.SetResetToken(ctx, user.ID.Hex(), hashToken(rawToken), expires); err != nil {
		return nil, "", err
	}

	return user, rawToken, nil
}

func (s *userService) ClearResetToken(ctx context.Context, id string) error {
	return s.repo.ClearResetToken(ctx, id)
}

func (s *userService) ResetPassword(ctx context.Context, rawToken string, input *model.PasswordReset) (*model.User, error) {
	user, err := s.repo.FindByResetToken(ctx, hashToken(rawToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.BadRequest("Token is invalid or has expired")
		}
		return nil, err
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	if err := s.setPassword(ctx, user, input.Password); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdatePassword(ctx context.Context, user *model.User, input *model.PasswordUpdate) error {
	if err := s.validator.Validate(input); err != nil {
		return err
	}

	stored, err := s.repo.FindByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(stored.Password, input.PasswordCurrent) {
		return apperrors.Unauthorized("Your current password is wrong.")
	}

	return s.setPassword(ctx, stored, input.Password)
}

func (s *userService) setPassword(ctx context.Context, user *model.User, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Backdated by a second so a token issued in the same instant still fails
	// the changed-after check.
	changedAt := time.Now().Add(-time.Second)
	if err := s.repo.SetPassword(ctx, user.ID.Hex(), hash, changedAt); err != nil {
		return err
	}

	s.log.Info("password changed", "id", user.ID.Hex())
	return nil
}

// UpdateProfile applies the self-service subset of fields. Password changes
// have their own endpoint and are rejected before this is called.
func (s *userService) UpdateProfile(ctx context.Context, id, name, email string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := bson.M{}
	if name != "" {
		user.Name = sanitizer.String(name)
		fields["name"] = user.Name
	}
	if email != "" {
		user.Email = sanitizer.String(email)
		fields["email"] = user.Email
	}
	if len(fields) == 0 {
		return user, nil
	}

	if err := s.validator.Validate(user); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProfile(ctx, id, fields); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Deactivate(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *userService) Normalize(user *model.User) {
	user.Name = sanitizer.String(user.Name)
	user.Email = sanitizer.String(user.Email)
	if user.Role == "" {
		user.Role = model.RoleUser
	}
}

func (s *userService) Validate(user *model.User) error {
	return s.validator.Validate(user)
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
