package main

import (
	"context"
	"log"
	"os"

	"comic_platform/internal/db"
	"comic_platform/internal/domain"
	"comic_platform/internal/repository"
	"comic_platform/internal/service"
)

// Seeds a demo account and a few priced chapters, then prints a JWT for the
// account so the API can be exercised by hand.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()
	userID := int64(1001)

	accounts := service.NewAccountService(pool, 1000)
	account, err := accounts.CreateAccount(ctx, userID)
	if err != nil {
		log.Fatalf("create account failed: %v", err)
	}
	log.Printf("account user_id=%d balance=%d level=%d\n", account.UserID, account.Balance, account.Level)

	chapters := repository.NewChapterRepository(pool)
	for _, c := range []*domain.Chapter{
		{ComicID: 1, Title: "Prologue", Price: 0},
		{ComicID: 1, Title: "Chapter 1", Price: 50},
		{ComicID: 1, Title: "Chapter 2", Price: 80},
		{ComicID: 2, Title: "One-shot", Price: 120},
	} {
		if err := chapters.Create(ctx, c); err != nil {
			log.Fatalf("create chapter %q failed: %v", c.Title, err)
		}
		log.Printf("chapter id=%d title=%q price=%d\n", c.ID, c.Title, c.Price)
	}

	service.InitJWT(secret)
	token, err := service.GenerateJWT(userID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
