package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clinrecords/internal/pkg/response"
)

// Handler manages the HTTP surface for staff login and OTP verification.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Employee ID and password are required")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.EmployeeID, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to login")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": gin.H{
			"id":          result.Staff.ID,
			"employee_id": result.Staff.EmployeeID,
			"name":        result.Staff.Name,
		},
		"token": result.AccessToken,
	})
}

func (h *Handler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Mobile number is required")
		return
	}

	expiresAt, err := h.service.SendOTP(c.Request.Context(), req.Mobile)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to send OTP")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":    "OTP sent successfully",
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Mobile and OTP are required")
		return
	}

	if err := h.service.VerifyOTP(c.Request.Context(), req.Mobile, req.Code); err != nil {
		switch {
		case errors.Is(err, ErrCodeExpired):
			response.Error(c, http.StatusBadRequest, "OTP_EXPIRED", "OTP has expired")
		case errors.Is(err, ErrCodeInvalid):
			response.Error(c, http.StatusBadRequest, "OTP_INVALID", "Invalid OTP")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify OTP")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "OTP verified successfully",
	})
}
