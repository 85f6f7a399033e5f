package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"comic_platform/internal/http/middleware"
	"comic_platform/internal/progression"
	"comic_platform/internal/repository"
	"comic_platform/internal/service"

	"github.com/gin-gonic/gin"
)

type RechargeRequest struct {
	Coins int64 `json:"coins" binding:"required,min=1"`
}

// Recharge credits purchased coins to the user's account. Called by the
// payment collaborator after it has confirmed the charge.
func (h *Handler) Recharge(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.Economy.GrantRecharge(c.Request.Context(), userID, req.Coins)
	if err != nil {
		h.economyError(c, "recharge", err)
		return
	}

	middleware.EconomyOps.WithLabelValues("recharge", "ok").Inc()
	if res.LeveledUp {
		middleware.LevelUps.Inc()
	}
	c.JSON(http.StatusOK, res)
}

// UnlockChapter spends coins to unlock a priced chapter. Repeating the call
// for an unlocked chapter is a success with the current state.
func (h *Handler) UnlockChapter(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	chapterID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || chapterID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}

	res, err := h.Economy.UnlockChapter(c.Request.Context(), userID, chapterID)
	if err != nil {
		h.economyError(c, "chapter_unlock", err)
		return
	}

	middleware.EconomyOps.WithLabelValues("chapter_unlock", "ok").Inc()
	if res.LeveledUp {
		middleware.LevelUps.Inc()
	}
	c.JSON(http.StatusOK, res)
}

type ReadPagesRequest struct {
	Pages int `json:"pages" binding:"required,min=1"`
}

// ReadPages records a finished reading session and converts the page count
// into experience.
func (h *Handler) ReadPages(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ReadPagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.Economy.RecordPagesRead(c.Request.Context(), userID, req.Pages)
	if err != nil {
		h.economyError(c, "page_read", err)
		return
	}

	middleware.EconomyOps.WithLabelValues("page_read", "ok").Inc()
	if res.LeveledUp {
		middleware.LevelUps.Inc()
	}
	c.JSON(http.StatusOK, res)
}

// ClaimDaily claims today's login reward.
func (h *Handler) ClaimDaily(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	res, err := h.Economy.ClaimDailyReward(c.Request.Context(), userID)
	if err != nil {
		h.economyError(c, "daily_claim", err)
		return
	}

	middleware.EconomyOps.WithLabelValues("daily_claim", "ok").Inc()
	c.JSON(http.StatusOK, res)
}

// DailyRewardInfo exposes the reward schedule and the caller's streak state.
func (h *Handler) DailyRewardInfo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	account, err := h.Accounts.GetAccount(c.Request.Context(), userID)
	if err != nil {
		h.economyError(c, "daily_info", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"schedule":      h.Rewards,
		"streak_length": account.StreakLength,
		"last_claim_at": account.LastClaimAt,
	})
}

// economyError translates service errors into the response taxonomy:
// validation and business-rule failures are 4xx and must not be retried;
// anything unrecognized is a transient 5xx that is safe to retry.
func (h *Handler) economyError(c *gin.Context, kind string, err error) {
	middleware.EconomyOps.WithLabelValues(kind, "error").Inc()

	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientBalance):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient balance"})
	case errors.Is(err, service.ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": "already claimed today"})
	case errors.Is(err, progression.ErrEmptyRewardTable):
		// misconfiguration, not a transient fault: retrying cannot help
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "reward schedule unavailable"})
	case errors.Is(err, repository.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
	case errors.Is(err, repository.ErrChapterNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "chapter not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "temporary failure, retry"})
	}
}
