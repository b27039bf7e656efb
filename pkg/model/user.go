package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
	RoleAdmin     = "admin"
)

type User struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email     string             `json:"email" bson:"email" validate:"required,email"`
	Photo     string             `json:"photo,omitempty" bson:"photo,omitempty"`
	Role      string             `json:"role" bson:"role" validate:"omitempty,oneof=user guide lead-guide admin"`
	CreatedAt time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`

	// Credentials and reset state never leave the server.
	Password             string     `json:"-" bson:"password"`
	PasswordChangedAt    *time.Time `json:"-" bson:"passwordChangedAt,omitempty"`
	PasswordResetToken   string     `json:"-" bson:"passwordResetToken,omitempty"`
	PasswordResetExpires *time.Time `json:"-" bson:"passwordResetExpires,omitempty"`
	Active               *bool      `json:"-" bson:"active,omitempty"`
}

func (u *User) SetID(id primitive.ObjectID) {
	u.ID = id
}

func (u *User) Touch(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
}

// PasswordChangedAfter reports whether the password changed after the given
// token issue time, in which case the token must be rejected.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.After(issuedAt)
}

// Credentials is the signup/login request body. PasswordConfirm exists only
// for input validation and is never persisted.
type Credentials struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PasswordUpdate struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

type PasswordReset struct {
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}
