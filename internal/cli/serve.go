package cli

import (
	"fmt"

	"resumescore/internal/config"
	"resumescore/internal/engine"
	"resumescore/internal/match"
	"resumescore/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for resume scoring",
	Long: `Start an HTTP server that provides REST API endpoints for resume scoring.

Available endpoints:
- POST /score: Score a parsed resume against a role profile
- POST /criterion: Score a single criterion in isolation
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

Reference data:
- Use --reference to point at a YAML overlay for the built-in tables
- Use --watch to hot-reload the overlay file when it changes

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server
- Use --cert-file and --key-file for TLS certificates`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("reference", "", "Reference data overlay file (YAML, overrides config)")
	serveCmd.Flags().Bool("watch", false, "Watch the reference file and hot-reload on change")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")

	// Bind flags to viper config keys
	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("server.port", "port")
	bindFlag("server.host", "host")
	bindFlag("reference.file", "reference")
	bindFlag("reference.watch", "watch")
	bindFlag("server.tls.mode", "tls-mode")
	bindFlag("server.tls.certfile", "cert-file")
	bindFlag("server.tls.keyfile", "key-file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Validate TLS configuration after applying overrides
	tempConfig := &config.Config{Server: cfg.Server}
	if err := tempConfig.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	// Resolve secrets before building the oracle so the embedding key is present
	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return fmt.Errorf("failed to apply vault secrets: %w", err)
	}

	ref, err := config.LoadReference(cfg.Reference.File)
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}
	store := config.NewReferenceStore(ref)

	var watcher *config.ReferenceWatcher
	if cfg.Reference.Watch && cfg.Reference.File != "" {
		watcher, err = config.NewReferenceWatcher(cfg.Reference.File, store, logger)
		if err != nil {
			return fmt.Errorf("failed to create reference watcher: %w", err)
		}
	}

	oracle, err := match.NewEmbeddingOracle(cmd.Context(), cfg.Oracle, logger)
	if err != nil {
		return fmt.Errorf("failed to create embedding oracle: %w", err)
	}
	var o match.Oracle
	if oracle != nil {
		o = oracle
	}

	eng := engine.New(store, cfg, o, logger)

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
	pipeline := server.Pipeline{
		Engine:  eng,
		Store:   store,
		Watcher: watcher,
		Oracle:  o,
	}
	return server.NewServer(cfg, serverCfg, pipeline, logger).Start()
}
