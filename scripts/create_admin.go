// scripts/create_admin.go
//
// Seeds the first account directly, bypassing the admin-code gate.
// Useful on a fresh database before ADMIN_REGISTRATION_CODE has been
// circulated.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/sthmu/Student-Manager/config"
	"github.com/sthmu/Student-Manager/database"
	"github.com/sthmu/Student-Manager/models"
	"github.com/sthmu/Student-Manager/repository"
)

func main() {
	username := flag.String("username", "admin", "account username")
	email := flag.String("email", "admin@example.com", "account email")
	password := flag.String("password", "", "account password (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("usage: create_admin -password <password> [-username u] [-email e]")
	}
	if len(*password) < 6 {
		log.Fatal("password must be at least 6 characters")
	}

	_ = godotenv.Load()
	cfg := config.Load()
	db := database.Connect(cfg)
	if err := database.Bootstrap(db); err != nil {
		log.Fatalf("schema bootstrap failed: %v", err)
	}

	users := repository.NewUserRepository(db)

	if existing, err := users.FindByUsername(*username); err != nil {
		log.Fatalf("failed to query users: %v", err)
	} else if existing != nil {
		fmt.Println("account already exists with username:", *username)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	u := models.User{
		Username:     *username,
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		PasswordHash: string(hash),
	}
	if err := users.Create(&u); err != nil {
		log.Fatalf("failed to insert account: %v", err)
	}

	fmt.Println("account created")
	fmt.Println("  username:", u.Username)
	fmt.Println("  email:   ", u.Email)
}
