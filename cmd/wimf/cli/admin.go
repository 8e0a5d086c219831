package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wimf-app/wimf/internal/model"
	"github.com/wimf-app/wimf/internal/service"
	"github.com/wimf-app/wimf/internal/store"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
		Long:  "Create administrator accounts or promote existing users, directly against the database.",
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminPromoteCmd())

	return cmd
}

func newAdminCreateCmd() *cobra.Command {
	var (
		username string
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new administrator account",
		Example: `  wimf admin create --username chef --email chef@example.com --password secret123
  wimf admin create --username chef --email chef@example.com  # prompts for password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminCreate(username, email, password)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Account username (required)")
	cmd.Flags().StringVar(&email, "email", "", "Account email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")

	return cmd
}

func runAdminCreate(username, email, password string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %q", email)
	}

	if password == "" {
		var err error
		password, err = promptPassword()
		if err != nil {
			return err
		}
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	authSvc := service.NewAuthService("unused")
	hash, err := authSvc.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ctx := context.Background()
	user, err := st.CreateUser(ctx, username, email, hash)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if _, err := st.PromoteUser(ctx, user.Email, model.RoleAdministrator); err != nil {
		return fmt.Errorf("promote user: %w", err)
	}

	fmt.Printf("administrator %q created (id %d)\n", user.Username, user.ID)
	return nil
}

func newAdminPromoteCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "promote <email>",
		Short: "Change the role of an existing account",
		Args:  cobra.ExactArgs(1),
		Example: `  wimf admin promote chef@example.com
  wimf admin promote chef@example.com --role Moderator`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminPromote(args[0], role)
		},
	}

	cmd.Flags().StringVar(&role, "role", string(model.RoleAdministrator), "Target role (Member, Moderator, Administrator)")

	return cmd
}

func runAdminPromote(email, roleName string) error {
	role := model.Role(roleName)
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", roleName)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	user, err := st.PromoteUser(context.Background(), email, role)
	if err != nil {
		return fmt.Errorf("promote user: %w", err)
	}

	fmt.Printf("%q is now %s\n", user.Username, user.Rights)
	return nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("read confirmation: %w", err)
	}
	fmt.Println()

	if string(pwBytes) != string(confirmBytes) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(pwBytes), nil
}

func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, store.PoolConfig{
		MaxOpenConns:    cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:    cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetime: parseDuration(cfg.Database.Pool.ConnMaxLifetime, 30*time.Minute),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}
