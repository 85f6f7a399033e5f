package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"comic_platform/internal/repository"

	"github.com/gin-gonic/gin"
)

// Me returns the caller's economy state.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	account, err := h.Accounts.GetAccount(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load account"})
		return
	}

	c.JSON(http.StatusOK, account)
}

// History returns the caller's recent coin ledger entries. Optional ?limit=
// and ?type= filters.
func (h *Handler) History(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	txs, err := h.Accounts.GetHistory(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// Unlocks lists the chapters the caller has paid for.
func (h *Handler) Unlocks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	grants, err := h.Accounts.GetUnlocks(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load unlocks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unlocks": grants})
}

// ChapterInfo returns a chapter's identity and price, the surface the reader
// needs to render a paywall.
func (h *Handler) ChapterInfo(c *gin.Context) {
	chapterID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || chapterID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}

	chapter, err := h.ChapterRepo.GetByID(c.Request.Context(), chapterID)
	if err != nil {
		if errors.Is(err, repository.ErrChapterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chapter not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chapter"})
		return
	}

	c.JSON(http.StatusOK, chapter)
}
