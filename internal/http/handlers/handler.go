package handlers

import (
	"comic_platform/internal/config"
	"comic_platform/internal/repository"
	"comic_platform/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB          *pgxpool.Pool
	Economy     *service.EconomyService
	Accounts    *service.AccountService
	ChapterRepo *repository.ChapterRepository
	ServiceKey  string
	Rewards     []int64
}

func NewHandler(db *pgxpool.Pool, cfg *config.Config) *Handler {
	return &Handler{
		DB:          db,
		Economy:     service.NewEconomyService(db, cfg.Rates, cfg.DailyRewards),
		Accounts:    service.NewAccountService(db, cfg.SignupBonus),
		ChapterRepo: repository.NewChapterRepository(db),
		ServiceKey:  cfg.ServiceKey,
		Rewards:     cfg.DailyRewards,
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
