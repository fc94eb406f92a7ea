package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"github.com/IEC2025/UeabInnovationHub-sub000/cmd/buildCFG"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/api/api"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/auth"
	rabbitReader "github.com/IEC2025/UeabInnovationHub-sub000/internal/consumerWorker"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/mailer"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/metrics"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/rabbit"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/repo"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/service"
)

var (
	configPath string
	envPath    string
)

func main() {
	zlog.Init()

	root := &cobra.Command{
		Use:           "biew",
		Short:         "BIEW registration intake service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	root.PersistentFlags().StringVar(&envPath, "env", ".env", "optional .env file")

	root.AddCommand(serveCmd(), migrateCmd(), exportCmd(), hashPasswordCmd())

	if err := root.Execute(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("command failed")
	}
}

func loadConfig() (*config.Config, error) {
	env := envPath
	if _, err := os.Stat(env); err != nil {
		env = ""
	}
	cfg := config.New()
	if err := cfg.Load(configPath, env, "BIEW"); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// openRepository connects to Postgres and returns the repository.
func openRepository(cfg *config.Config, log *zerolog.Logger) (repo.Repository, error) {
	masterDSN, slaveDSNs, poolOptions, err := buildCFG.BuildDBConfig(cfg, log)
	if err != nil {
		return nil, err
	}
	db, err := dbpg.New(masterDSN, slaveDSNs, poolOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	repository, err := repo.NewRepository(db, log)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("Database connected successfully")
	return repository, nil
}

func serve(ctx context.Context) error {
	log := zlog.Logger

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)

	repository, err := openRepository(cfg, &log)
	if err != nil {
		return err
	}
	if err := repository.MigrateUp(serverCfg.MigrationsPath); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Info().Msg("Migrations applied successfully")

	mailCfg, err := buildCFG.BuildMailConfig(cfg, &log)
	if err != nil {
		return err
	}
	fees, err := buildCFG.BuildFeeConfig(cfg)
	if err != nil {
		return err
	}
	authCfg, err := buildCFG.BuildAuthConfig(cfg, &log)
	if err != nil {
		return err
	}
	authenticator, err := auth.NewAuthenticator(authCfg)
	if err != nil {
		return err
	}

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	var transport mailer.Transport
	var reader *rabbitReader.Reader
	switch mailCfg.Resolved() {
	case buildCFG.TransportSMTP:
		transport = mailer.NewSMTPTransport(mailCfg.SMTP)
	case buildCFG.TransportQueue:
		rabbitCfg, err := buildCFG.BuildRabbitConfig(cfg, &log)
		if err != nil {
			return err
		}
		rmq, err := rabbit.NewRabbit(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.Queue)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer rmq.Close()

		transport = mailer.NewQueueTransport(rmq)
		reader = rabbitReader.NewReader(rmq, deliveryTransport(mailCfg, &log), &log).WithTimeout(mailCfg.Timeout)
		if err := reader.Start(workerCtx); err != nil {
			return fmt.Errorf("failed to start notification reader: %w", err)
		}
	default:
		transport = mailer.NewConsoleTransport(&log)
	}
	dispatcher := mailer.NewDispatcher(transport, mailCfg.From, mailCfg.Recipients, &log).WithTimeout(mailCfg.Timeout)
	log.Info().Str("transport", dispatcher.TransportName()).Msg("notification dispatcher ready")

	metrics.Register()

	serviceInstance := service.NewService(repository, dispatcher, fees, &log)
	app := api.NewRouters(&api.Routers{
		Service:      serviceInstance,
		Auth:         authenticator,
		Log:          &log,
		Health:       repository.Ping,
		Mode:         serverCfg.Mode,
		AllowOrigins: serverCfg.AllowOrigins,
	})

	srv := &http.Server{Addr: ":" + serverCfg.Port, Handler: app}
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", serverCfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case <-signalCtx.Done():
		log.Info().Msg("Shutdown signal received")
	case runErr = <-serverErrChan:
		log.Error().Err(runErr).Msg("Server error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down server")
	}

	cancelWorkers()
	if reader != nil {
		reader.Stop()
	}

	log.Info().Msg("Shutdown complete")
	return runErr
}

func deliveryTransport(mailCfg buildCFG.MailConfig, log *zerolog.Logger) mailer.Transport {
	if mailCfg.Delivery() == buildCFG.TransportSMTP {
		return mailer.NewSMTPTransport(mailCfg.SMTP)
	}
	return mailer.NewConsoleTransport(log)
}
