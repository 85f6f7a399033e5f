package handlers

import (
	"crypto/subtle"
	"net/http"

	"comic_platform/internal/service"

	"github.com/gin-gonic/gin"
)

// Session issuance belongs to the platform's auth service. The endpoints here
// exist for the internal callers that sit in front of the economy engine: the
// auth service exchanges its shared key for a user token at registration, and
// provisions the economy account at the same time.

type TokenRequest struct {
	ServiceKey string `json:"service_key" binding:"required"`
	UserID     int64  `json:"user_id" binding:"required,min=1"`
}

// Token exchanges the shared service key for a user-scoped JWT.
func (h *Handler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.ServiceKey), []byte(h.ServiceKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid service key"})
		return
	}

	token, err := service.GenerateJWT(req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type RegisterRequest struct {
	ServiceKey string `json:"service_key" binding:"required"`
	UserID     int64  `json:"user_id" binding:"required,min=1"`
}

// Register provisions the economy account for a newly registered user:
// level 1, zero exp, signup bonus. Idempotent — repeating the call returns
// the existing account.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.ServiceKey), []byte(h.ServiceKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid service key"})
		return
	}

	account, err := h.Accounts.CreateAccount(c.Request.Context(), req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	c.JSON(http.StatusOK, account)
}
