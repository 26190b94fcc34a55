package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/config"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/database"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/logger"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/repository"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New User ===")

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		fmt.Println("Error: A valid email is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		fmt.Printf("Error: hashing failed: %v\n", err)
		return
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     email[:strings.IndexByte(email, '@')],
		PasswordHash: string(hash),
	}
	if err := userRepo.Create(ctx, user); err != nil {
		fmt.Printf("Error: create user failed: %v\n", err)
		return
	}

	fmt.Printf("User created: %s (%s)\n", user.Email, user.ID)
}
