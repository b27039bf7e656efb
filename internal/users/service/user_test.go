package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"trailbook/internal/users/repository"
	"trailbook/internal/users/validator"
	"trailbook/pkg/auth"
	"trailbook/pkg/crud"
	apperrors "trailbook/pkg/errors"
	"trailbook/pkg/logger"
	"trailbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockUserRepository struct {
	findByEmailFunc      func(ctx context.Context, email string) (*model.User, error)
	findByResetTokenFunc func(ctx context.Context, hashedToken string) (*model.User, error)

	resetTokenID      string
	resetTokenHash    string
	resetTokenExpires time.Time
}

func (m *mockUserRepository) Store() *crud.Store[model.User] {
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) FindByResetToken(ctx context.Context, hashedToken string) (*model.User, error) {
	if m.findByResetTokenFunc != nil {
		return m.findByResetTokenFunc(ctx, hashedToken)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) SetPassword(ctx context.Context, id string, hash string, changedAt time.Time) error {
	return nil
}

func (m *mockUserRepository) SetResetToken(ctx context.Context, id string, hashedToken string, expires time.Time) error {
	m.resetTokenID = id
	m.resetTokenHash = hashedToken
	m.resetTokenExpires = expires
	return nil
}

func (m *mockUserRepository) ClearResetToken(ctx context.Context, id string) error {
	return nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id string, fields bson.M) error {
	return nil
}

func (m *mockUserRepository) Deactivate(ctx context.Context, id string) error {
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:  logger.LevelError,
		Format: logger.FormatText,
		Output: io.Discard,
	})
}

func newTestService(repo repository.UserRepository) UserService {
	log := testLogger()
	return NewUserService(repo, validator.NewUserValidator(log), log)
}

func storedUser(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	return &model.User{
		ID:       primitive.NewObjectID(),
		Name:     "Laura Wilson",
		Email:    "laura@example.com",
		Role:     model.RoleUser,
		Password: hash,
	}
}

func assertAppError(t *testing.T, err error, statusCode int, message string) {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %v, want AppError", err)
	}
	if appErr.StatusCode != statusCode {
		t.Errorf("StatusCode = %d, want %d", appErr.StatusCode, statusCode)
	}
	if appErr.Message != message {
		t.Errorf("Message = %q, want %q", appErr.Message, message)
	}
}

func TestAuthenticateMissingCredentials(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	_, err := svc.Authenticate(context.Background(), &model.Login{Email: "laura@example.com"})
	assertAppError(t, err, http.StatusBadRequest, "Please provide email and password!")

	_, err = svc.Authenticate(context.Background(), &model.Login{Password: "pass1234"})
	assertAppError(t, err, http.StatusBadRequest, "Please provide email and password!")
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	_, err := svc.Authenticate(context.Background(), &model.Login{
		Email:    "nobody@example.com",
		Password: "pass1234",
	})
	assertAppError(t, err, http.StatusUnauthorized, "Incorrect email or password")
}

func TestAuthenticateWrongPassword(t *testing.T) {
	user := storedUser(t, "pass1234")
	svc := newTestService(&mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return user, nil
		},
	})

	_, err := svc.Authenticate(context.Background(), &model.Login{
		Email:    user.Email,
		Password: "wrong-password",
	})
	assertAppError(t, err, http.StatusUnauthorized, "Incorrect email or password")
}

func TestAuthenticateSuccess(t *testing.T) {
	user := storedUser(t, "pass1234")
	svc := newTestService(&mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return user, nil
		},
	})

	got, err := svc.Authenticate(context.Background(), &model.Login{
		Email:    user.Email,
		Password: "pass1234",
	})
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("returned wrong user")
	}
}

func TestCreatePasswordResetUnknownEmail(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	_, _, err := svc.CreatePasswordReset(context.Background(), "nobody@example.com")
	assertAppError(t, err, http.StatusNotFound, "There is no user with email address.")
}

func TestCreatePasswordResetStoresDigest(t *testing.T) {
	user := storedUser(t, "pass1234")
	repo := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return user, nil
		},
	}
	svc := newTestService(repo)

	before := time.Now()
	got, rawToken, err := svc.CreatePasswordReset(context.Background(), user.Email)
	if err != nil {
		t.Fatalf("CreatePasswordReset() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("returned wrong user")
	}
	if rawToken == "" {
		t.Fatal("raw token must not be empty")
	}

	sum := sha256.Sum256([]byte(rawToken))
	if repo.resetTokenHash != hex.EncodeToString(sum[:]) {
		t.Errorf("stored token is not the SHA-256 digest of the raw token")
	}
	if repo.resetTokenHash == rawToken {
		t.Errorf("raw token must never be stored")
	}

	ttl := repo.resetTokenExpires.Sub(before)
	if ttl < 9*time.Minute || ttl > 11*time.Minute {
		t.Errorf("token TTL = %s, want about 10 minutes", ttl)
	}
}

func TestResetPasswordInvalidToken(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	_, err := svc.ResetPassword(context.Background(), "deadbeef", &model.PasswordReset{
		Password:        "newpass123",
		PasswordConfirm: "newpass123",
	})
	assertAppError(t, err, http.StatusBadRequest, "Token is invalid or has expired")
}

func TestResetPasswordLooksUpDigest(t *testing.T) {
	user := storedUser(t, "pass1234")
	var lookedUp string
	svc := newTestService(&mockUserRepository{
		findByResetTokenFunc: func(ctx context.Context, hashedToken string) (*model.User, error) {
			lookedUp = hashedToken
			return user, nil
		},
	})

	_, err := svc.ResetPassword(context.Background(), "deadbeef", &model.PasswordReset{
		Password:        "newpass123",
		PasswordConfirm: "newpass123",
	})
	if err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	sum := sha256.Sum256([]byte("deadbeef"))
	if lookedUp != hex.EncodeToString(sum[:]) {
		t.Errorf("lookup used %q, want the SHA-256 digest of the raw token", lookedUp)
	}
}

func TestUpdatePasswordWrongCurrent(t *testing.T) {
	user := storedUser(t, "pass1234")
	svc := newTestService(&mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return user, nil
		},
	})

	err := svc.UpdatePassword(context.Background(), user, &model.PasswordUpdate{
		PasswordCurrent: "wrong-password",
		Password:        "newpass123",
		PasswordConfirm: "newpass123",
	})
	assertAppError(t, err, http.StatusUnauthorized, "Your current password is wrong.")
}

func TestSignupRejectsMismatchedPasswords(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	_, err := svc.Signup(context.Background(), &model.Credentials{
		Name:            "Laura Wilson",
		Email:           "laura@example.com",
		Password:        "pass1234",
		PasswordConfirm: "different",
	})

	var verrs apperrors.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error = %v, want ValidationErrors", err)
	}
	found := false
	for _, ve := range verrs {
		if ve.Message == "Passwords are not the same!" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing password-confirmation message, got %v", verrs)
	}
}
