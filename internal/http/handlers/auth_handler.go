package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SahanaD8/Trackify/internal/domain"
	"github.com/SahanaD8/Trackify/internal/http/response"
	"github.com/SahanaD8/Trackify/internal/service"
)

type AuthHandler struct {
	OTP  service.OTPService
	Auth service.AuthService

	// EchoOTP puts the generated code in the send-otp response. Dev only.
	EchoOTP bool
}

func NewAuthHandler(otp service.OTPService, auth service.AuthService, echoOTP bool) *AuthHandler {
	return &AuthHandler{OTP: otp, Auth: auth, EchoOTP: echoOTP}
}

func (h *AuthHandler) Routes(rateLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	if rateLimit != nil {
		r.With(rateLimit).Post("/send-otp", h.sendOTP)
	} else {
		r.Post("/send-otp", h.sendOTP)
	}
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	return r
}

func (h *AuthHandler) sendOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.SendOTPReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	code, err := h.OTP.Send(r.Context(), &req)
	if err != nil {
		response.Error(w, err)
		return
	}

	var data interface{}
	if h.EchoOTP {
		data = map[string]string{"otp": code}
	}
	response.OK(w, "OTP sent successfully", data)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	res, err := h.Auth.Login(r.Context(), &req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Login successful", res)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	var req domain.LogoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.Auth.Logout(r.Context(), &req); err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Logged out successfully", nil)
}
