package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/auth"
)

// Prints a bcrypt hash for an admin password using the configured cost,
// for pasting into the users table.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/generate_password.go <password>")
	}

	password := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: using default bcrypt cost, config failed to load: %v", err)
		cfg = nil
	}

	pm := auth.NewPasswordManager(cfg)
	hash, err := pm.HashPassword(password)
	if err != nil {
		log.Fatal("Error generating hash:", err)
	}

	fmt.Printf("Hash: %s\n", hash)

	if err := pm.VerifyPassword(password, hash); err != nil {
		log.Fatal("Hash verification failed:", err)
	}

	fmt.Println("✅ Hash verified successfully!")
}
