// Command createadmin provisions or resets the admin user. It is the only
// path that writes credentials; the API itself has no signup surface.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"
	"gorm.io/gorm"

	"github.com/inkpost/blog-backend/database"
	"github.com/inkpost/blog-backend/models"
	"github.com/inkpost/blog-backend/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.Connect(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := run(db, 12); err != nil {
		log.Fatalf("Error creating admin user: %v", err)
	}
}

func run(db *gorm.DB, bcryptCost int) error {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("\n=== Create Admin User ===")

	fmt.Print("Enter admin username (default: admin): ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = "admin"
	}

	var existing models.User
	err = db.Where("username = ?", username).First(&existing).Error
	exists := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if exists {
		fmt.Printf("User %q already exists. Overwrite? (yes/no): ", username)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	password, err := readPassword("Enter admin password (min 8 characters): ")
	if err != nil {
		return err
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	fmt.Println("Hashing password...")
	creds := store.NewCredentialStore(db, bcryptCost)
	if _, err := creds.CreateOrUpdate(ctx, username, password); err != nil {
		return err
	}

	if exists {
		fmt.Printf("Admin user %q updated successfully\n", username)
	} else {
		fmt.Printf("Admin user %q created successfully\n", username)
	}
	fmt.Println("\nYou can now login with these credentials.")
	return nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
