package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sourcebook/internal/config"
	"sourcebook/internal/ingest"
	"sourcebook/internal/llm"
	"sourcebook/internal/logging"
	"sourcebook/internal/store"
	"sourcebook/internal/studio"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Shared application state, wired in PersistentPreRunE
	cfg     *config.Config
	st      *store.LocalStore
	logger  *zap.Logger
	fetcher *ingest.Fetcher
)

var rootCmd = &cobra.Command{
	Use:   "sourcebook",
	Short: "sourcebook - notebook-based research assistant",
	Long: `sourcebook collects source documents into notebooks and generates
derivative study artifacts from them: summaries, quizzes, flashcards, FAQs,
timelines, podcast scripts, mind maps, and debates, plus free-form question
answering grounded in the sources.

All state is stored locally in SQLite. Generation uses a configurable
backend (Gemini REST, Gemini SDK, or a local Ollama server).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		if err := logging.Initialize(cfg.Logging.Dir, cfg.Logging.DebugMode || verbose, cfg.Logging.Level); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		st, err = store.NewLocalStore(cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}

		fetcher = ingest.NewFetcher(ingest.FetcherConfig{
			Timeout:      cfg.GetIngestTimeout(),
			MaxBodyBytes: cfg.Ingest.MaxBodyBytes,
			UserAgent:    cfg.Ingest.UserAgent,
		})

		logging.Boot("sourcebook %s starting (db=%s provider=%s)", cfg.Version, cfg.Storage.DatabasePath, cfg.LLM.Provider)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if st != nil {
			_ = st.Close()
		}
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// newGenClient builds the configured backend. Called per invocation so that
// commands that never generate don't pay for client setup.
func newGenClient(ctx context.Context) (llm.Client, error) {
	return llm.NewClient(ctx, cfg)
}

// activeNotebookID resolves the notebook a command operates on: an explicit
// --notebook flag wins, otherwise the stored active-notebook pointer.
func activeNotebookID(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	id, err := st.ActiveNotebook()
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("no active notebook; run 'sourcebook notebook use <id>' or pass --notebook")
	}
	return id, nil
}

func newOrchestrator(client llm.Client) *studio.Orchestrator {
	return studio.NewOrchestrator(st, client, cfg.GetLLMTimeout())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "path to config file")

	rootCmd.AddCommand(notebookCmd)
	rootCmd.AddCommand(sourceCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(savedCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(themeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
