package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ochronus/xfrtuc/internal/app"
	"github.com/ochronus/xfrtuc/internal/config"
	"github.com/ochronus/xfrtuc/internal/http"
	"github.com/ochronus/xfrtuc/internal/utils"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	// Get default config path
	defaultConfigPath, err := config.DefaultConfigPath()
	if err != nil {
		defaultConfigPath = "./config.toml"
	}

	var configPath string

	// Root command
	rootCmd := &cobra.Command{
		Use:   "xfrtuc",
		Short: "transferatu client and in-memory fake server",
		Long: "Client for the transferatu backup/transfer service, plus an in-memory fake of its " +
			"HTTP API for testing code that talks to it.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to config file")

	// Serve command
	var port int
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the fake transferatu server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, configPath, port)
		},
	}
	serveCmd.Flags().IntVarP(&port, "port", "p", -1, "Override the configured port")

	// Generate-config command
	var username string
	generateConfigCmd := &cobra.Command{
		Use:   "generate-config",
		Short: "Generate config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return utils.GenerateConfig(configPath, username)
		},
	}
	generateConfigCmd.Flags().StringVarP(&username, "username", "u", utils.DefaultUsername, "Username for the generated credentials")

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "xfrtuc version %s\n", version)
		},
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateConfigCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newGroupsCmd(&configPath))
	rootCmd.AddCommand(newTransfersCmd(&configPath))
	rootCmd.AddCommand(newSchedulesCmd(&configPath))

	return rootCmd
}

func runServer(cmd *cobra.Command, configPath string, port int) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if port >= 0 {
		cfg.Port = port
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Build container with shared dependencies
	container, err := app.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	container.Logger.Infof("Starting xfrtuc, version %s", version)

	server := http.NewServer(container)
	return server.StartWithContext(ctx)
}
