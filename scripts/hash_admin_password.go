package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Prints a bcrypt hash for an admin password and the mongo shell update that
// stores it.
// Usage: go run scripts/hash_admin_password.go <email> <password>
func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run scripts/hash_admin_password.go <email> <password>")
		os.Exit(1)
	}

	email := strings.ToLower(strings.TrimSpace(os.Args[1]))
	password := os.Args[2]
	if len(password) < 8 {
		fmt.Println("password must be at least 8 characters")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Error generating hash: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Bcrypt Hash: %s\n", hash)
	fmt.Printf("\nTo update in MongoDB, run:\n")
	fmt.Printf("db.admins.updateOne(\n")
	fmt.Printf("  {\"email\": %q},\n", email)
	fmt.Printf("  {$set: {\"passwordHash\": %q}}\n", string(hash))
	fmt.Printf(")\n")
}
