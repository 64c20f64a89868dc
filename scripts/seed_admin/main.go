// Command seed_admin creates or updates an API user directly in the
// database. The API has no self-registration, so operators bootstrap
// accounts with this tool.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

var validRoles = map[string]bool{"ADMIN": true, "PLANNER": true, "VIEWER": true}

func main() {
	var (
		dsn      string
		email    string
		password string
		fullName string
		role     string
	)

	flag.StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (defaults to DATABASE_URL)")
	flag.StringVar(&email, "email", "", "account email (required)")
	flag.StringVar(&password, "password", "", "account password (required)")
	flag.StringVar(&fullName, "name", "", "display name")
	flag.StringVar(&role, "role", "ADMIN", "role: ADMIN, PLANNER or VIEWER")
	flag.Parse()

	role = strings.ToUpper(role)
	if dsn == "" || email == "" || password == "" {
		flag.Usage()
		os.Exit(2)
	}
	if !validRoles[role] {
		log.Fatalf("invalid role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer db.Close()

	const query = `INSERT INTO users (id, email, password_hash, full_name, role, active, created_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
			full_name = EXCLUDED.full_name,
			role = EXCLUDED.role,
			active = TRUE`
	if _, err := db.Exec(query, uuid.NewString(), email, string(hash), fullName, role, time.Now().UTC()); err != nil {
		log.Fatalf("failed to upsert user: %v", err)
	}

	fmt.Printf("user %s ready with role %s\n", email, role)
}
