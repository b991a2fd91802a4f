// Command catalogctl browses a running catalog server from the terminal and
// loads demo data into its store.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/simp-lee/catalog/internal/app"
	"github.com/simp-lee/catalog/internal/config"
	"github.com/simp-lee/catalog/internal/domain"
	"github.com/simp-lee/catalog/internal/listing"
	"github.com/simp-lee/catalog/internal/seed"
	"github.com/simp-lee/catalog/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Browse and seed the product catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBrowseCmd(), newSeedCmd())
	return root
}

func newBrowseCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search and page through the products of a running server",
		Long: `Fetches the product collection once from the server's /api/products
endpoint and opens an interactive table.

Type to search by product name, owner, price or id. Use ←/→ or PgUp/PgDn
to change page, Home/End to jump to the first or last page, Esc to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := listing.NewClient(baseURL, &http.Client{Timeout: timeout})
			return tui.Run(cmd.Context(), client)
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "http://127.0.0.1:8080", "base URL of the catalog server")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "HTTP timeout for the product fetch")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var (
		configPath string
		reset      bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog into the configured store",
		Long: `Creates the users and products tables when missing and inserts the demo
owners and products in one transaction. A store that already holds products
is left untouched unless --reset is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			res, err := app.Seed(cmd.Context(), cfg, seed.Demo(), reset)
			if domain.IsAlreadyExists(err) {
				return fmt.Errorf("seed: %w (run with --reset to replace it)", err)
			}
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users and %d products\n", res.Users, res.Products)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "configs/config.yaml", "path to configuration file")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete existing users and products first")
	return cmd
}
