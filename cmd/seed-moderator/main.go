package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/zhravan/juztadrop-sub000/internal/config"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
	"github.com/zhravan/juztadrop-sub000/internal/infrastructure/datasources/postgres"
	"github.com/zhravan/juztadrop-sub000/internal/infrastructure/mail"
	"github.com/zhravan/juztadrop-sub000/internal/infrastructure/repositories"
	"github.com/zhravan/juztadrop-sub000/internal/usecases"
)

type moderatorSeeder interface {
	Seed(ctx context.Context, email string) (*entities.Moderator, error)
}

type seedDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (moderatorSeeder, io.Closer, error)
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newSeeder wires the moderator usecase over an existing gorm handle.
func newSeeder(cfg *config.Config, db *gorm.DB) moderatorSeeder {
	userRepo := repositories.NewUserRepository(db)
	moderatorRepo := repositories.NewModeratorRepository(db)
	otpRepo := repositories.NewOtpTokenRepository(db)

	// Seeding never sends a code.
	otp := usecases.NewOtpUsecase(otpRepo, mail.LogMailer{}, nil, nil)
	userSessions := usecases.NewUserSessionManager(
		repositories.NewSessionRepository(db, entities.PrincipalUser), userRepo, nil)
	moderatorSessions := usecases.NewModeratorSessionManager(
		repositories.NewSessionRepository(db, entities.PrincipalModerator), moderatorRepo, nil)

	return usecases.NewModeratorUsecase(otp, userRepo, moderatorRepo,
		repositories.NewUnitOfWork(db), moderatorSessions, userSessions)
}

func defaultSeedDeps() seedDeps {
	return seedDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (moderatorSeeder, io.Closer, error) {
			sqlDB, err := postgres.NewConnection(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			db, err := postgres.NewGormDB(sqlDB)
			if err != nil {
				_ = sqlDB.Close()
				return nil, nil, fmt.Errorf("failed to init gorm: %w", err)
			}
			return newSeeder(cfg, db), sqlDB, nil
		},
		out: os.Stdout,
	}
}

func runSeedModerator(args []string, deps seedDeps) error {
	def := defaultSeedDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("seed-moderator", flag.ContinueOnError)
	emailFlag := fs.String("email", "", "email of the first moderator (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *emailFlag == "" {
		return fmt.Errorf("--email is required")
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	seeder, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	moderator, err := seeder.Seed(context.Background(), *emailFlag)
	if err != nil {
		return fmt.Errorf("failed seeding moderator: %w", err)
	}

	_, _ = fmt.Fprintln(deps.out, "Created first moderator")
	_, _ = fmt.Fprintf(deps.out, "moderator_id=%s\n", moderator.ID)
	_, _ = fmt.Fprintf(deps.out, "user_id=%s\n", moderator.UserID)
	if moderator.User != nil {
		_, _ = fmt.Fprintf(deps.out, "email=%s\n", moderator.User.Email)
	}
	return nil
}

func main() {
	if err := runSeedModerator(os.Args[1:], defaultSeedDeps()); err != nil {
		log.Fatal(err)
	}
}
