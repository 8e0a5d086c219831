// Package cli holds the wimf command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wimf-app/wimf/internal/config"
)

var cfgFile string

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	rootCmd := newRootCmd(version, commit, date)
	return rootCmd.Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wimf",
		Short: "Recipe sharing API with ingredient recognition",
		Long: `WIMF (What's In My Fridge): the recipe sharing API.

It serves recipes, ingredients, diets and reviews over REST, and can
identify the ingredients on a fridge picture to suggest what to cook.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./wimf.yaml)")

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newAdminCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("wimf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.wimf")
	}

	viper.SetEnvPrefix("WIMF")
	viper.AutomaticEnv()
	viper.ReadInConfig() // config file is optional
}

// loadConfig reads the YAML file, then lets WIMF_* environment variables
// override the secrets.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if path := viper.ConfigFileUsed(); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v := viper.GetString("auth.jwt_secret"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := viper.GetString("database.dsn"); v != "" {
		cfg.Database.DSN = v
	}
	if v := viper.GetString("mail.api_key"); v != "" {
		cfg.Mail.APIKey = v
	}
	if v := viper.GetString("ai.api_key"); v != "" {
		cfg.AI.APIKey = v
	}
	return cfg, nil
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// parseDuration reads a duration config value with a fallback.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid duration %q, using %s\n", s, fallback)
		return fallback
	}
	return d
}
