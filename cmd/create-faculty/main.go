package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/alphagrade/alphagrade-backend/internal/config"
	"github.com/alphagrade/alphagrade-backend/internal/logger"
	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/alphagrade/alphagrade-backend/internal/service"
	"github.com/alphagrade/alphagrade-backend/internal/storage"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Open Storage ──────────────────────────────────────────────────
	stores, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer stores.Close()

	authService := service.NewAuthService(stores.Accounts, cfg, nil, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Faculty Account ===")

	name := prompt(reader, "Enter Name: ")
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	email := prompt(reader, "Enter Email: ")
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	department := prompt(reader, "Enter Department (optional): ")

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	password := string(bytePassword)
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	account, err := authService.Register(ctx, model.RoleFaculty, model.Profile{
		Name:       name,
		Email:      email,
		Department: department,
	}, password)
	if errors.Is(err, service.ErrDuplicateAccount) {
		fmt.Printf("Error: a faculty account for %s already exists\n", email)
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create faculty account")
	}

	fmt.Printf("\nSuccess! Faculty '%s' (%s) created with ID: %s\n", account.Name, account.Email, account.ID)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
