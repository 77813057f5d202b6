package main

import (
	"flag"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"go-pos-backend/internal/model"
	"go-pos-backend/pkg/database"
	"go-pos-backend/pkg/logger"
)

// Operational escape hatch: reset an account's password directly in the
// database when the owner is locked out.
func main() {
	username := flag.String("username", "owner", "username of the account to reset")
	password := flag.String("password", "owner123", "new password to set")
	flag.Parse()

	// fall back to system env if no .env file exists
	_ = godotenv.Load()

	log := logger.New()
	db := database.ConnectDB(log)

	var user model.User
	if err := db.Where("username = ?", *username).First(&user).Error; err != nil {
		log.WithError(err).Fatalf("user %s not found", *username)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Fatal("failed to hash password")
	}

	// Clearing the token version also invalidates any live session.
	updates := map[string]any{
		"password":      string(hashed),
		"token_version": "",
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		log.WithError(err).Fatal("failed to update password")
	}

	log.WithField("username", *username).Info("password reset")
}
