package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/filehost/internal/server"
	"github.com/dmitrijs2005/filehost/internal/server/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp loads the configuration from the process arguments and builds the
// App. The caller must Close it.
func newApp(ctx context.Context) (*server.App, error) {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return app, nil
}

// Configuration flags (-p, -d, -c, ...) are parsed by the config package,
// so every command tolerates flags it does not declare.
var tolerateConfigFlags = cobra.FParseErrWhitelist{UnknownFlags: true}

func serve(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	app.Run(cmd.Context())
	return nil
}

var rootCmd = &cobra.Command{
	Use:                "filehost",
	Short:              "Multi-user file hosting server",
	Long:               "filehost stores uploaded files per user and serves them over a JSON API.\nWithout a subcommand it runs the server.",
	SilenceUsage:       true,
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: tolerateConfigFlags,
	RunE:               serve,
}

var serveCmd = &cobra.Command{
	Use:                "serve",
	Short:              "Run the HTTP API server",
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: tolerateConfigFlags,
	RunE:               serve,
}

var migrateCmd = &cobra.Command{
	Use:                "migrate",
	Short:              "Apply database migrations and exit",
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: tolerateConfigFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		// NewApp migrates the schema as part of startup.
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date")
		return nil
	},
}

var reconcileDryRun bool

var reconcileCmd = &cobra.Command{
	Use:                "reconcile",
	Short:              "Remove unreferenced upload files and report records without bytes",
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: tolerateConfigFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		report, err := app.Reconcile(cmd.Context(), reconcileDryRun)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		verb := "Removed"
		if report.DryRun {
			verb = "Would remove"
		}
		fmt.Fprintf(out, "Scanned:  %d\n", report.Scanned)
		fmt.Fprintf(out, "%s: %d\n", verb, len(report.Removed))
		for _, name := range report.Removed {
			fmt.Fprintf(out, "  %s\n", name)
		}
		fmt.Fprintf(out, "Within grace period: %d\n", report.Young)
		fmt.Fprintf(out, "Records without bytes: %d\n", len(report.Missing))
		for _, id := range report.Missing {
			fmt.Fprintf(out, "  file %d\n", id)
		}
		return nil
	},
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "list what would be removed without removing it")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(reconcileCmd)
}
