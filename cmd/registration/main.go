package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mkrupp/homecase-registration/internal/infra/config"
	"github.com/mkrupp/homecase-registration/internal/infra/logging"
	"github.com/mkrupp/homecase-registration/internal/infra/transport/console"
	"github.com/mkrupp/homecase-registration/internal/repo/user"
	"github.com/mkrupp/homecase-registration/internal/svc/regsvc"
)

const (
	appName = "homecase"
	svcName = "registration"
)

type Config struct {
	config.EnvConfig

	Log     logging.LoggerConfig            `envPrefix:"LOG_"`
	Console regsvc.ConsoleTransportConfig   `envPrefix:"CONSOLE_"`
	User    user.SQLiteUserRepositoryConfig `envPrefix:"USER_"`
}

func main() {
	var (
		cfg Config
		ctx = context.Background()

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if err := logging.Configure(ctx, cfg.Log, loggerName); err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	log := logging.GetLogger("cmd.registration")

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)

			return
		}

		log.InfoContext(ctx, "shutdown")
	}()

	log.DebugContext(ctx, "starting",
		"namespace", cfg.Namespace(),
		logging.Group("db", "path", cfg.User.DatabasePath),
	)

	regSvc := regsvc.NewRegistrationService(user.SQLiteUserRepositoryFactory(cfg.User))
	con := console.New(os.Stdin, os.Stdout, cfg.Console.ConsoleConfig)
	consoleTransport := regsvc.NewConsoleTransport(regSvc, con, cfg.Console)

	if err := console.Run(ctx, consoleTransport); err != nil {
		return fmt.Errorf("run console: %w", err)
	}

	return nil
}
