package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/viva/internal/config"
	"github.com/abhisek/viva/internal/i18n"
	"github.com/abhisek/viva/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "viva",
	Short: "Voice-first AI tutor",
	Long:  "Viva is a conversational tutor that teaches topics section by section, answers questions and quizzes you on what you covered.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides VIVA_DB env var)")
	rootCmd.PersistentFlags().String("lang", "", "Session language: en or az (overrides VIVA_LANG env var)")
	rootCmd.PersistentFlags().String("log-file", "", "Chat only: write logs to this file (logs are discarded otherwise)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional dotenv file to load before reading the environment")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(turnsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	cfg.DBPath = dbPath

	if l, _ := cmd.Flags().GetString("lang"); l != "" {
		lang := i18n.Lang(l)
		if !lang.Valid() {
			return nil, fmt.Errorf("unsupported language %q", l)
		}
		cfg.DefaultLang = lang
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (VIVA_DB or the default XDG path).
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return cfg.DBPath, nil
}

// openStore opens the configured event database for read-only inspection
// commands.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
