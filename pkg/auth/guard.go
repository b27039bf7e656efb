package auth

import (
	"context"
	"net/http"
	"strings"

	apperrors "trailbook/pkg/errors"
	httputil "trailbook/pkg/http"
	"trailbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// CookieName is the cookie the token is also accepted from, next to the
// Authorization header.
const CookieName = "jwt"

type contextKey string

const userKey contextKey = "current_user"

// UserLoader resolves the authenticated identity behind a verified token.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Guard builds the per-route authentication and authorization middleware.
// Routes list their guards explicitly in registration order.
type Guard struct {
	tokens *TokenService
	users  UserLoader
}

func NewGuard(tokens *TokenService, users UserLoader) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Protect verifies the bearer/cookie token, loads the user and rejects tokens
// issued before the last password change.
func (g *Guard) Protect(next httputil.HandlerFunc) httputil.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
		token := extractToken(r)
		if token == "" {
			return apperrors.Unauthorized("You are not logged in! Please log in to get access.")
		}

		userID, issuedAt, err := g.tokens.Verify(token)
		if err != nil {
			return err
		}

		user, err := g.users.FindByID(r.Context(), userID)
		if err != nil {
			return apperrors.Unauthorized("The user belonging to this token does no longer exist.")
		}
		if user.PasswordChangedAfter(issuedAt) {
			return apperrors.Unauthorized("User recently changed password! Please log in again.")
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		return next(w, r.WithContext(ctx), ps)
	}
}

// RestrictTo passes only when the authenticated user holds one of the roles.
// It must run after Protect.
func (g *Guard) RestrictTo(roles ...string) httputil.Middleware {
	return func(next httputil.HandlerFunc) httputil.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
			user := CurrentUser(r.Context())
			if user == nil {
				return apperrors.Unauthorized("You are not logged in! Please log in to get access.")
			}
			for _, role := range roles {
				if user.Role == role {
					return next(w, r, ps)
				}
			}
			return apperrors.Forbidden("You do not have permission to perform this action")
		}
	}
}

func CurrentUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}

// WithUser is used by tests and by handlers that synthesize request context.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
