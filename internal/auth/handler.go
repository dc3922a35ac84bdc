package auth

import (
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/expense-api/internal/httputil"
	"github.com/redmonkez12/expense-api/internal/logging"
	"github.com/redmonkez12/expense-api/internal/user"
)

const (
	purposeRegister       = "register"
	purposeLogin          = "login"
	purposeForgotPassword = "forgot-password"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service     *Service
	rateLimiter RateLimiter
}

func NewHandler(service *Service, rateLimiter RateLimiter) *Handler {
	return &Handler{
		service:     service,
		rateLimiter: rateLimiter,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest represents the password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest carries the new password; the token travels in the path
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new account and receive an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration details"
// @Success      201 {object} Registration
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or user already exists"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ip := getClientIP(r)
	if h.ipLimited(w, r, logger, ip, purposeRegister) {
		return
	}

	var req RegisterRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	h.recordIP(r, logger, ip, purposeRegister)

	reg, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			logger.Warn("registration failed: email already exists")
			httputil.RespondErrorWithCode(w, "User already exists", httputil.CodeUserAlreadyExists, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordTooShort):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePasswordTooShort, http.StatusBadRequest)
		default:
			logger.Error("registration failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to register user", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user registered successfully", "user_id", reg.User.ID)
	httputil.RespondJSON(w, reg, http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate with email and password and receive an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} AuthTokens
// @Failure      400 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ip := getClientIP(r)
	if h.ipLimited(w, r, logger, ip, purposeLogin) {
		return
	}

	var req LoginRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	h.recordIP(r, logger, ip, purposeLogin)

	tokens, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			httputil.RespondErrorWithCode(w, "Invalid Credentials", httputil.CodeInvalidCredentials, http.StatusBadRequest)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to login", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, tokens, http.StatusOK)
}

// Me returns the authenticated user's profile
// @Summary      Current user
// @Description  Return the profile of the authenticated user without credentials
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} user.User
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "User does not exist"
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	u, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httputil.RespondErrorWithCode(w, "User does not exist", httputil.CodeUserNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to load user", "user_id", userID, "error", err.Error())
		httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, u, http.StatusOK)
}

// ForgotPassword handles password reset requests
// @Summary      Request password reset
// @Description  Email a single-use reset link valid for one hour
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Email address"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request"
// @Failure      404 {object} httputil.ErrorResponse "User does not exist"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Email could not be sent"
// @Router       /auth/forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ip := getClientIP(r)
	if h.ipLimited(w, r, logger, ip, purposeForgotPassword) {
		return
	}

	var req ForgotPasswordRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}
	email := normalizeEmail(req.Email)

	onCooldown, err := h.rateLimiter.CheckEmailCooldown(r.Context(), email)
	if err != nil {
		logger.Error("failed to check email cooldown", "error", err.Error())
		// Continue despite error
	} else if onCooldown {
		logger.Warn("email on cooldown")
		httputil.RespondErrorWithCode(w, "please wait before requesting another email", httputil.CodeCooldownActive, http.StatusTooManyRequests)
		return
	}

	h.recordIP(r, logger, ip, purposeForgotPassword)

	if err := h.service.RequestPasswordReset(r.Context(), email); err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			httputil.RespondErrorWithCode(w, "User does not exist", httputil.CodeUserNotFound, http.StatusNotFound)
		case errors.Is(err, ErrEmailDelivery):
			logger.Error("password reset email failed", "error", err.Error())
			httputil.RespondErrorWithCode(w, "Email could not be sent", httputil.CodeEmailNotSent, http.StatusInternalServerError)
		default:
			logger.Error("password reset request failed", "error", err.Error())
			httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	if err := h.rateLimiter.SetEmailCooldown(r.Context(), email); err != nil {
		logger.Error("failed to set email cooldown", "error", err.Error())
	}

	httputil.RespondMessage(w, "Email sent successfully", http.StatusOK)
}

// ResetPassword completes a password reset
// @Summary      Reset password
// @Description  Set a new password using the token from the reset email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token   path string               true "Reset token"
// @Param        request body ResetPasswordRequest true "New password"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid or expired token"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/reset-password/{token} [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	token := chi.URLParam(r, "token")

	var req ResetPasswordRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), token, req.Password); err != nil {
		switch {
		case errors.Is(err, ErrInvalidResetToken):
			logger.Warn("password reset rejected")
			httputil.RespondErrorWithCode(w, "Invalid or expired token", httputil.CodeInvalidResetToken, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordTooShort):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePasswordTooShort, http.StatusBadRequest)
		default:
			logger.Error("password reset failed", "error", err.Error())
			httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondMessage(w, "Password reset successfully", http.StatusOK)
}

func (h *Handler) ipLimited(w http.ResponseWriter, r *http.Request, logger *logging.Logger, ip, purpose string) bool {
	exceeded, err := h.rateLimiter.CheckIPRateLimitWithPurpose(r.Context(), ip, purpose)
	if err != nil {
		// fail open: a Redis outage must not lock users out
		logger.Error("failed to check IP rate limit", "purpose", purpose, "error", err.Error())
		return false
	}
	if exceeded {
		logger.Warn("IP rate limit exceeded", "purpose", purpose, "ip", ip)
		httputil.RespondErrorWithCode(w, "too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return true
	}
	return false
}

func (h *Handler) recordIP(r *http.Request, logger *logging.Logger, ip, purpose string) {
	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, purpose); err != nil {
		logger.Error("failed to record IP request", "purpose", purpose, "error", err.Error())
	}
}

// getClientIP returns the host part of RemoteAddr. Proxy headers are applied
// to RemoteAddr by the router only when SERVER_TRUST_PROXY is set.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
