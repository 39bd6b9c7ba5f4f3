package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/seed"
	"github.com/portfolio/backend/internal/services"
)

var (
	reset       bool
	skipContent bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account and sample portfolio content",
	Long: `seed writes the admin account and a sample portfolio into the configured
storage (MongoDB when MONGODB_URI is set, otherwise the JSON files in DATA_DIR).

The admin comes from ADMIN_EMAIL and ADMIN_PASSWORD. Outside production it
falls back to ` + seed.DefaultAdminEmail + `.

Content is only written into an empty portfolio. Use --reset to replace it.

Example:
  seed
  seed --reset
  seed --skip-content`,
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().BoolVar(&reset, "reset", false, "Delete existing content and messages first (admins are kept)")
	rootCmd.Flags().BoolVar(&skipContent, "skip-content", false, "Only create the admin account")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	email, password := cfg.AdminEmail, cfg.AdminPassword
	if email == "" {
		if cfg.IsProduction() {
			return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required in production")
		}
		email, password = seed.DefaultAdminEmail, seed.DefaultAdminPassword
	}

	backend, err := services.Open(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "failed to open storage")
	}
	defer backend.Close(context.Background())

	res, err := seed.Run(ctx, backend, seed.Options{
		AdminEmail:    email,
		AdminPassword: password,
		Reset:         reset,
		SkipContent:   skipContent,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Seeded %s\n", backend.Name)
	if res.AdminCreated {
		fmt.Fprintf(out, "  admin:        %s (created)\n", res.AdminEmail)
	} else {
		fmt.Fprintf(out, "  admin:        %s (exists)\n", res.AdminEmail)
	}
	if res.ContentSkip != "" {
		fmt.Fprintf(out, "  content:      %s\n", res.ContentSkip)
		return nil
	}
	fmt.Fprintf(out, "  skills:       %d\n", res.Skills)
	fmt.Fprintf(out, "  projects:     %d\n", res.Projects)
	fmt.Fprintf(out, "  experience:   %d\n", res.Experience)
	fmt.Fprintf(out, "  achievements: %d\n", res.Achievements)
	return nil
}
