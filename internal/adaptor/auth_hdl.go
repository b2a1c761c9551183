package adaptor

import (
	"net/http"

	"heartcoach/internal/dto/request"
	"heartcoach/internal/dto/response"
	"heartcoach/internal/usecase"
	"heartcoach/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	otp     usecase.OTPService
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(otp usecase.OTPService, service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		otp:     otp,
		service: service,
		log:     log,
	}
}

func clientMeta(r *http.Request) request.ClientMeta {
	meta := request.ClientMeta{IPAddress: clientIP(r)}
	if ua := r.UserAgent(); ua != "" {
		meta.DeviceInfo = &ua
	}
	return meta
}

// RequestOTP handles POST /api/v1/auth/request-otp
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req request.ContactRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contact := req.Resolve()
	sent, err := h.otp.RequestCode(r.Context(), contact)
	if err != nil {
		handleServiceError(w, h.log, err, "request otp")
		return
	}

	utils.ResponseSuccess(w, "OTP sent", response.OTPDispatchResponse{
		Sent:    sent,
		Channel: usecase.ChannelOf(contact),
	})
}

// ResendOTP handles POST /api/v1/auth/resend-otp
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req request.ContactRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contact := req.Resolve()
	sent, err := h.otp.ResendCode(r.Context(), contact)
	if err != nil {
		handleServiceError(w, h.log, err, "resend otp")
		return
	}

	utils.ResponseSuccess(w, "OTP resent", response.OTPDispatchResponse{
		Sent:    sent,
		Channel: usecase.ChannelOf(contact),
	})
}

// VerifyOTP handles POST /api/v1/auth/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tokens, err := h.service.LoginWithOTP(r.Context(), &req, clientMeta(r))
	if err != nil {
		handleServiceError(w, h.log, err, "verify otp")
		return
	}

	utils.ResponseSuccess(w, "Login successful", tokens)
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "signup")
		return
	}

	utils.ResponseCreated(w, "Account created", user)
}

// Token handles POST /api/v1/auth/token
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tokens, err := h.service.Login(r.Context(), &req, clientMeta(r))
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", tokens)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tokens, err := h.service.Refresh(r.Context(), &req, clientMeta(r))
	if err != nil {
		handleServiceError(w, h.log, err, "refresh")
		return
	}

	utils.ResponseSuccess(w, "Token refreshed", tokens)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		handleServiceError(w, h.log, err, "logout")
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}
