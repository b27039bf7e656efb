package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"trailbook/internal/users/repository"
	"trailbook/internal/users/service"
	"trailbook/pkg/auth"
	"trailbook/pkg/crud"
	"trailbook/pkg/email"
	apperrors "trailbook/pkg/errors"
	httputil "trailbook/pkg/http"
	"trailbook/pkg/logger"
	"trailbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	crud      *crud.Handlers[model.User]
	service   service.UserService
	tokens    *auth.TokenService
	mailer    *email.Mailer
	guard     *auth.Guard
	catcher   *httputil.Catcher
	cookieTTL time.Duration
	secure    bool
	log       *logger.Logger
}

func NewUserHandler(
	repo repository.UserRepository,
	svc service.UserService,
	tokens *auth.TokenService,
	mailer *email.Mailer,
	guard *auth.Guard,
	catcher *httputil.Catcher,
	cookieTTL time.Duration,
	secureCookies bool,
	log *logger.Logger,
) *UserHandler {
	handlers := crud.NewHandlers(repo.Store(), crud.Options[model.User]{
		Normalize: svc.Normalize,
		Validate:  svc.Validate,
	}, log)

	return &UserHandler{
		crud:      handlers,
		service:   svc,
		tokens:    tokens,
		mailer:    mailer,
		guard:     guard,
		catcher:   catcher,
		cookieTTL: cookieTTL,
		secure:    secureCookies,
		log:       log,
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	c := h.catcher
	protect := h.guard.Protect
	admin := h.guard.RestrictTo(model.RoleAdmin)

	router.POST("/api/v1/users/signup", c.Handle(h.signup))
	router.POST("/api/v1/users/login", c.Handle(h.login))
	router.POST("/api/v1/users/forgotPassword", c.Handle(h.forgotPassword))
	router.PATCH("/api/v1/users/resetPassword/:token", c.Handle(h.resetPassword))

	router.PATCH("/api/v1/users/updateMyPassword", c.Handle(h.updateMyPassword, protect))
	router.GET("/api/v1/users/me", c.Handle(h.me, protect))
	router.PATCH("/api/v1/users/updateMe", c.Handle(h.updateMe, protect))
	router.DELETE("/api/v1/users/deleteMe", c.Handle(h.deleteMe, protect))

	router.GET("/api/v1/users", c.Handle(h.crud.GetAll, protect, admin))
	router.POST("/api/v1/users", c.Handle(h.createUser, protect, admin))
	router.GET("/api/v1/users/id/:id", c.Handle(h.crud.GetOne, protect, admin))
	router.PATCH("/api/v1/users/id/:id", c.Handle(h.crud.UpdateOne, protect, admin))
	router.DELETE("/api/v1/users/id/:id", c.Handle(h.crud.DeleteOne, protect, admin))
}

func (h *UserHandler) signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}

	user, err := h.service.Signup(r.Context(), &creds)
	if err != nil {
		return err
	}

	// A failed welcome mail should not cost the user their fresh account.
	welcomeURL := fmt.Sprintf("%s://%s/me", scheme(r), r.Host)
	if err := h.mailer.SendWelcome(r.Context(), user, welcomeURL); err != nil {
		h.log.Error("failed to send welcome email", "id", user.ID.Hex(), "error", err)
	}

	return h.sendToken(w, http.StatusCreated, user)
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var login model.Login
	if err := json.NewDecoder(r.Body).Decode(&login); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}

	user, err := h.service.Authenticate(r.Context(), &login)
	if err != nil {
		return err
	}

	return h.sendToken(w, http.StatusOK, user)
}

func (h *UserHandler) forgotPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}

	user, rawToken, err := h.service.CreatePasswordReset(r.Context(), body.Email)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s://%s/api/v1/users/resetPassword/%s", scheme(r), r.Host, rawToken)
	if err := h.mailer.SendPasswordReset(r.Context(), user, resetURL); err != nil {
		h.log.Error("failed to send reset email", "id", user.ID.Hex(), "error", err)
		if clearErr := h.service.ClearResetToken(r.Context(), user.ID.Hex()); clearErr != nil {
			h.log.Error("failed to clear reset token", "id", user.ID.Hex(), "error", clearErr)
		}
		return apperrors.New("There was an error sending the email. Try again later!", http.StatusInternalServerError)
	}

	return httputil.WriteMessage(w, "Token sent to email!")
}

func (h *UserHandler) resetPassword(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	var input model.PasswordReset
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}

	user, err := h.service.ResetPassword(r.Context(), ps.ByName("token"), &input)
	if err != nil {
		return err
	}

	return h.sendToken(w, http.StatusOK, user)
}

func (h *UserHandler) updateMyPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var input model.PasswordUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}

	user := auth.CurrentUser(r.Context())
	if err := h.service.UpdatePassword(r.Context(), user, &input); err != nil {
		return err
	}

	return h.sendToken(w, http.StatusOK, user)
}

func (h *UserHandler) me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	return httputil.WriteSuccess(w, auth.CurrentUser(r.Context()))
}

func (h *UserHandler) updateMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if _, ok := body["password"]; ok {
		return apperrors.BadRequest("This route is not for password updates. Please use /updateMyPassword.")
	}
	if _, ok := body["passwordConfirm"]; ok {
		return apperrors.BadRequest("This route is not for password updates. Please use /updateMyPassword.")
	}

	current := auth.CurrentUser(r.Context())
	name, _ := body["name"].(string)
	emailAddr, _ := body["email"].(string)

	user, err := h.service.UpdateProfile(r.Context(), current.ID.Hex(), name, emailAddr)
	if err != nil {
		return err
	}
	return httputil.WriteSuccess(w, user)
}

func (h *UserHandler) deleteMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	current := auth.CurrentUser(r.Context())
	if err := h.service.Deactivate(r.Context(), current.ID.Hex()); err != nil {
		return err
	}
	httputil.WriteNoContent(w)
	return nil
}

// createUser exists only to point admins at the signup flow.
func (h *UserHandler) createUser(_ http.ResponseWriter, _ *http.Request, _ httprouter.Params) error {
	return apperrors.New("This route is not defined! Please use /signup instead", http.StatusInternalServerError)
}

// sendToken issues the JWT, mirrors it into the auth cookie and writes the
// token envelope.
func (h *UserHandler) sendToken(w http.ResponseWriter, statusCode int, user *model.User) error {
	token, err := h.tokens.Sign(user.ID.Hex())
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Expires:  time.Now().Add(h.cookieTTL),
		HttpOnly: true,
		Secure:   h.secure,
		Path:     "/",
	})

	return httputil.WriteToken(w, statusCode, token, user)
}

func scheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
