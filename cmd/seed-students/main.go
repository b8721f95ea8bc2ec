package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/alphagrade/alphagrade-backend/internal/config"
	"github.com/alphagrade/alphagrade-backend/internal/logger"
	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/alphagrade/alphagrade-backend/internal/service"
	"github.com/alphagrade/alphagrade-backend/internal/storage"
)

var names = []string{
	"Aarav Mehta", "Priya Nair", "Rohan Iyer", "Sneha Kulkarni", "Vikram Rao",
	"Ananya Das", "Karthik Menon", "Divya Reddy", "Arjun Shah", "Meera Pillai",
	"Nikhil Joshi", "Pooja Bhat", "Rahul Verma", "Ishita Ghosh", "Siddharth Jain",
	"Tanvi Desai", "Aditya Kapoor", "Neha Sinha", "Manish Gupta", "Kavya Hegde",
	"Harsh Patel", "Ritika Bose", "Varun Chawla", "Shreya Banerjee", "Yash Agarwal",
}

func main() {
	var (
		count    int
		class    string
		password string
	)
	flag.IntVar(&count, "n", 25, "number of students to create")
	flag.StringVar(&class, "class", "CSE-A", "class assigned to every seeded student")
	flag.StringVar(&password, "password", "student123", "password for every seeded student")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stores, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer stores.Close()

	authService := service.NewAuthService(stores.Accounts, cfg, nil, log)

	fmt.Printf("=== Seeding %d Students ===\n", count)

	created, skipped := 0, 0
	for i := 0; i < count; i++ {
		profile := model.Profile{
			Name:       names[i%len(names)],
			Email:      fmt.Sprintf("student%03d@alphagrade.local", i+1),
			RollNumber: fmt.Sprintf("R%04d", i+1),
			Class:      class,
		}

		_, err := authService.Register(ctx, model.RoleStudent, profile, password)
		switch {
		case errors.Is(err, service.ErrDuplicateAccount):
			skipped++
		case err != nil:
			fmt.Printf("Error creating student %s (%s): %v\n", profile.Name, profile.Email, err)
		default:
			created++
			if created%10 == 0 {
				fmt.Printf("Created %d students...\n", created)
			}
		}
	}

	total, err := stores.Accounts.Count(ctx, model.RoleStudent)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count students")
	}
	fmt.Printf("\nSeed completed! Added %d/%d students (%d already existed). %d students in total.\n",
		created, count, skipped, total)
}
