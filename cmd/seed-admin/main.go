// Command seed-admin creates the initial admin account from the seed.*
// configuration. It is meant to run once when a deployment is bootstrapped.
package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"blog-api/internal/auth"
	"blog-api/internal/config"
	"blog-api/internal/logging"
	"blog-api/internal/mail"
	"blog-api/internal/service"
	"blog-api/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	bootLogger := logrus.New()
	bootLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		bootLogger.Errorf("load config: %v", err)
		return 1
	}

	logger, logCloser, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		Dir:        cfg.Log.Dir,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		bootLogger.Errorf("setup logging: %v", err)
		return 1
	}
	defer logCloser.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := storage.Open(ctx, storage.OptionsFromConfig(cfg), logger)
	if err != nil {
		logger.Errorf("Error seeding admin user: %v", err)
		return 1
	}
	defer store.Close(context.Background())

	// seeding never issues tokens, so the secret may be unset here
	svc := service.NewAuthService(
		store.Users,
		auth.NewPasswordHasher(auth.PasswordCost),
		auth.NewTokenIssuer(cfg.Auth.JWTSecret),
		mail.NewLogMailer(logger),
		logger,
	)

	_, err = svc.SeedAdmin(ctx, service.CreateAdminInput{
		FirstName: cfg.Seed.FirstName,
		LastName:  cfg.Seed.Name,
		Email:     cfg.Seed.Email,
		Password:  cfg.Seed.Password,
		Country:   cfg.Seed.Country,
	})
	if err != nil {
		logger.Errorf("Error seeding admin user: %v", err)
		return 1
	}

	logger.Info("Admin user seeded successfully.")
	return 0
}
