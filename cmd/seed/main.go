package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/tutorwave/lms-support/internal/auth"
	"github.com/tutorwave/lms-support/internal/config"
	"github.com/tutorwave/lms-support/internal/domain"
	"github.com/tutorwave/lms-support/internal/observability"
	"github.com/tutorwave/lms-support/internal/persistence"
)

// Seeding goes straight through the pool: accounts are provisioned by
// operators, not by the API, so there is no registration endpoint to reuse.
const upsertUserSQL = `
	INSERT INTO users (name, email, password_hash, role, subjects)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (email) DO UPDATE SET
		name = EXCLUDED.name,
		password_hash = EXCLUDED.password_hash,
		role = EXCLUDED.role,
		subjects = EXCLUDED.subjects,
		updated_at = NOW()`

type addUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
	Subjects []string
}

func parseAddUser(args []string) (*addUserInput, error) {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "login email")
	password := fs.String("password", "", "initial password")
	role := fs.String("role", string(domain.RoleStudent), "account role: Student, Teacher or Admin")
	subjects := fs.String("subjects", "", "comma-separated subjects taught (teachers only)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *name == "" || *email == "" || *password == "" {
		return nil, fmt.Errorf("adduser: -name, -email and -password are required")
	}
	parsedRole, ok := domain.ParseRole(*role)
	if !ok {
		return nil, fmt.Errorf("adduser: unknown role %q", *role)
	}

	input := &addUserInput{
		Name:     strings.TrimSpace(*name),
		Email:    strings.ToLower(strings.TrimSpace(*email)),
		Password: *password,
		Role:     parsedRole,
	}
	for _, s := range strings.Split(*subjects, ",") {
		if s = strings.TrimSpace(s); s != "" {
			input.Subjects = append(input.Subjects, s)
		}
	}
	return input, nil
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  seed adduser -name NAME -email EMAIL -password PASSWORD [-role ROLE] [-subjects a,b] - create or update an account")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	switch os.Args[1] {
	case "adduser":
		input, err := parseAddUser(os.Args[2:])
		if err != nil {
			logger.Fatal("invalid arguments", zap.Error(err))
		}
		if err := addUser(ctx, cfg, input, logger); err != nil {
			logger.Fatal("failed to add user", zap.Error(err))
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func addUser(ctx context.Context, cfg *config.Config, input *addUserInput, logger *zap.Logger) error {
	hash, err := auth.HashPassword(input.Password, cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool == nil {
		return fmt.Errorf("POSTGRES_DSN is required for seeding")
	}

	subjects := input.Subjects
	if subjects == nil {
		// The column is NOT NULL; a nil slice would encode as SQL NULL.
		subjects = []string{}
	}

	if _, err := pool.Exec(ctx, upsertUserSQL, input.Name, input.Email, hash, string(input.Role), subjects); err != nil {
		return fmt.Errorf("upsert user %s: %w", input.Email, err)
	}

	logger.Info("user seeded",
		zap.String("email", input.Email),
		zap.String("role", string(input.Role)),
	)
	return nil
}
