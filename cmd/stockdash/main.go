// stockdash is a small web dashboard over a stock-market data provider.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/seenimoa/stockdash/api"
	"github.com/seenimoa/stockdash/internal/config"
	"github.com/seenimoa/stockdash/internal/logging"
	"github.com/seenimoa/stockdash/internal/provider"
	"github.com/seenimoa/stockdash/internal/providers"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stockdash",
	Short: "Stock dashboard web server",
	Long: `stockdash serves a browser dashboard for stock quotes, symbol search
and daily price history, backed by Alpha Vantage or Financial Modeling Prep.

Running without a subcommand starts the web server.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return applyFlags(cmd, cfg)
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("provider", "", "market data provider override (alphavantage, fmp)")
	rootCmd.PersistentFlags().Int("port", 0, "listen port override")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(providersCmd)
}

// applyFlags layers command-line overrides on top of the loaded config.
func applyFlags(cmd *cobra.Command, c *config.Config) error {
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		c.Logging.Level = lvl
	}
	if name, _ := cmd.Flags().GetString("provider"); name != "" {
		config.ApplyProvider(c, name)
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		c.Server.Port = port
	}
	return c.Validate()
}

func newRegistry() (*provider.Registry, error) {
	reg := provider.NewRegistry()
	if err := providers.RegisterAllTo(reg); err != nil {
		return nil, fmt.Errorf("register providers: %w", err)
	}
	return reg, nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Version needs no config.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stockdash %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.New(cfg)
	log.Logger = logger

	reg, err := newRegistry()
	if err != nil {
		return err
	}
	srv, err := api.NewServer(cfg, api.Options{
		Registry: reg,
		Logger:   logger,
		Version:  version,
	})
	if err != nil {
		return err
	}

	if st := config.CheckAPIKeys(cfg)[0]; st.IsSet {
		logger.Info().Str("source", string(st.Source)).Str("key", st.Masked).Msg("default API key configured")
	} else {
		logger.Warn().Msg("no default API key; users must enter one at /setup")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and key status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  stockdash status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Environment:   %s\n", cfg.Server.Env)
		fmt.Printf("  Listen:        %s\n", cfg.Addr())
		fmt.Printf("  Provider:      %s\n", cfg.Provider.Name)
		fmt.Printf("  History:       %d days\n", cfg.Provider.HistoryWindow)
		fmt.Println()

		fmt.Println("  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			status := "not set (enter one at /setup)"
			if k.IsSet {
				status = fmt.Sprintf("set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// --- Providers Command ---

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported market data providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry()
		if err != nil {
			return err
		}
		for _, info := range reg.List() {
			marker := " "
			if info.Name == cfg.Provider.Name {
				marker = "*"
			}
			fmt.Printf("%s %-14s %s\n", marker, info.Name, info.Description)
			fmt.Printf("  %-14s key: %s, quota: %s\n", "", info.KeyEnv, info.RateLimit)
		}
		return nil
	},
}
