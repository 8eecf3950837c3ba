// Package main is blogctl, the maintenance CLI for the G-Labs website:
// seeding, administrator password management and session cleanup.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Krackerr154/glabs-website/internal/config"
	"github.com/Krackerr154/glabs-website/internal/db"
	"github.com/Krackerr154/glabs-website/internal/logger"
	"github.com/Krackerr154/glabs-website/internal/repository"
	"github.com/Krackerr154/glabs-website/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand(openPostgres, promptPassword)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openPostgres wires the commands to the configured database. args are
// passed to config.Parse.
func openPostgres(ctx context.Context, args []string) (*backend, error) {
	options, err := config.Parse(args)
	if err != nil {
		return nil, err
	}

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		return nil, err
	}

	conn, err := db.InitPostgres(ctx, options.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	credentials := service.NewCredentialService(repository.NewPostgresUserRepository(conn), 0)
	content := service.NewContentService(repository.NewPostgresContentRepository(conn))

	return &backend{
		Options: options,
		Users:   credentials,
		Seeder:  &service.Seeder{Credentials: credentials, Content: content},
		PurgeSessions: func(ctx context.Context) (int64, error) {
			return db.PurgeExpiredSessions(ctx, conn, time.Now(), log.Log)
		},
		Close: func() error {
			_ = log.Log.Sync()
			return conn.Close()
		},
	}, nil
}
