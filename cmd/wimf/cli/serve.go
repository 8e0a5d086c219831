package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wimf-app/wimf/internal/ai"
	"github.com/wimf-app/wimf/internal/handler"
	"github.com/wimf-app/wimf/internal/mail"
	"github.com/wimf-app/wimf/internal/server"
	"github.com/wimf-app/wimf/internal/service"
	"github.com/wimf-app/wimf/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the WIMF API server",
		Long:  "Start the HTTP server that exposes the recipe, ingredient and account APIs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Flags().Changed("host"), host, cmd.Flags().Changed("port"), port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(hostSet bool, host string, portSet bool, port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if hostSet {
		cfg.Server.Host = host
	}
	if portSet {
		cfg.Server.Port = port
	}

	logger := newLogger(cfg.Logging)

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required (or set WIMF_AUTH_JWT_SECRET)")
	}

	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, store.PoolConfig{
		MaxOpenConns:    cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:    cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetime: parseDuration(cfg.Database.Pool.ConnMaxLifetime, 30*time.Minute),
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	if err := st.Migrate(context.Background()); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("database ready", "driver", cfg.Database.Driver)

	authSvc := service.NewAuthService(cfg.Auth.JWTSecret)

	var mailer mail.Sender
	if cfg.Mail.Enabled && cfg.Mail.APIKey != "" {
		mailer = mail.NewResendSender(cfg.Mail.APIKey, cfg.Mail.From, cfg.Mail.ResetURL)
		logger.Info("mailer ready", "from", cfg.Mail.From)
	} else {
		mailer = &mail.LogSender{Logger: logger}
		logger.Warn("mail disabled, reset tokens are logged instead")
	}

	var gen ai.Generator
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		gen = ai.NewGemini(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL)
		logger.Info("ai ready", "model", cfg.AI.Model)
	} else {
		gen = ai.Disabled{}
		logger.Warn("ai disabled, picture recognition endpoints will answer 503")
	}

	h := handler.New(st, authSvc, mailer, gen, logger)

	srvCfg := server.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ShutdownTimeout: parseDuration(cfg.Server.ShutdownTimeout, 30*time.Second),
		CORSOrigins:     cfg.Server.CORS.Origins,
		CORSMethods:     cfg.Server.CORS.Methods,
		RateRequests:    cfg.Server.RateLimit.Requests,
		RateWindow:      parseDuration(cfg.Server.RateLimit.Window, time.Minute),
	}

	srv := server.New(srvCfg, h, st, authSvc, logger)

	fmt.Printf("→ WIMF API\n")
	fmt.Printf("→ Listening on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("→ Health:   http://%s:%d/healthz\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()

	return srv.ListenAndServe()
}
