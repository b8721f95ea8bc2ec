package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/alphagrade/alphagrade-backend/internal/config"
	"github.com/alphagrade/alphagrade-backend/migrations"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func main() {
	var dbURL string
	flag.StringVar(&dbURL, "database", "", "PostgreSQL URL (defaults to DATABASE_URL)")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		return
	}
	if dbURL == "" {
		dbURL = config.Load().DatabaseURL
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatalf("read embedded migrations: %v", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		log.Fatalf("initialize migrations: %v", err)
	}
	defer m.Close()

	msg, err := run(m, flag.Args())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(msg)
}

func run(m *migrate.Migrate, args []string) (string, error) {
	switch args[0] {
	case "up":
		if err := ignoreNoChange(m.Up()); err != nil {
			return "", fmt.Errorf("up: %w", err)
		}
		return "Migrated up successfully", nil

	case "down":
		if err := ignoreNoChange(m.Down()); err != nil {
			return "", fmt.Errorf("down: %w", err)
		}
		return "Migrated down successfully", nil

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return "No migrations applied", nil
		}
		if err != nil {
			return "", fmt.Errorf("version: %w", err)
		}
		return fmt.Sprintf("Version: %d, Dirty: %t", version, dirty), nil

	case "force":
		if len(args) < 2 {
			return "", errors.New("force requires a version argument")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return "", fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if err := m.Force(v); err != nil {
			return "", fmt.Errorf("force: %w", err)
		}
		return fmt.Sprintf("Forced version to %d", v), nil
	}
	return "", fmt.Errorf("unknown command %q", args[0])
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println("Commands: up, down, version, force <version>")
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
