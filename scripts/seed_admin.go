// Creates the initial admin account so the first surveys can be authored.
//
// Usage: go run scripts/seed_admin.go -email admin@example.org -password secret123
package main

import (
	"errors"
	"flag"
	"log"

	"tedp_backend/internal/config"
	"tedp_backend/internal/model"
	"tedp_backend/internal/repository"
	"tedp_backend/pkg/database"
	"tedp_backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password, at least 8 characters")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		log.Fatal("both -email and -password (8+ characters) are required")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	users := repository.NewUserRepository(db)
	if _, err := users.FindByEmail(*email); err == nil {
		log.Fatalf("account %s already exists", *email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("lookup failed: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hashing failed: %v", err)
	}

	admin := &model.User{
		FirstName: "Admin",
		LastName:  "Admin",
		Email:     *email,
		Password:  string(hashed),
		Role:      model.Admin,
	}
	if err := users.Create(admin); err != nil {
		log.Fatalf("create failed: %v", err)
	}

	log.Printf("admin account %s created (id %d)", *email, admin.ID)
}
