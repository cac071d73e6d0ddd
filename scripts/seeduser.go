// Seeds a user account. The API has no registration endpoint; accounts
// are created with this tool:
//
//	PG_DSN=postgres://... go run scripts/seeduser.go <username> <password>
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) != 3 {
		log.Fatalf("usage: %s <username> <password>", os.Args[0])
	}
	username, password := os.Args[1], os.Args[2]

	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		log.Fatal("PG_DSN is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer conn.Close(ctx)

	var id string
	err = conn.QueryRow(ctx,
		`INSERT INTO users (name, password_hash) VALUES ($1, $2) RETURNING id`,
		username, string(hash),
	).Scan(&id)
	if err != nil {
		log.Fatalf("insert user: %v", err)
	}
	fmt.Printf("created user %s (%s)\n", username, id)
}
