// Package main provides the CLI entrypoint for speedtype.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/speedtype/internal/config"
	"github.com/verte-zerg/speedtype/internal/leaderboard"
	"github.com/verte-zerg/speedtype/internal/logging"
	"github.com/verte-zerg/speedtype/internal/model"
	"github.com/verte-zerg/speedtype/internal/sample"
	"github.com/verte-zerg/speedtype/internal/session"
	"github.com/verte-zerg/speedtype/internal/stats"
	"github.com/verte-zerg/speedtype/internal/statsui"
	"github.com/verte-zerg/speedtype/internal/store"
	"github.com/verte-zerg/speedtype/internal/tui"
)

const (
	storageSQLite = "sqlite"
	storageFile   = "file"
	storageMemory = "memory"

	defaultStorage  = storageSQLite
	defaultLogLevel = "info"
	defaultWindow   = 10
)

var (
	testDuration int
	testTexts    string
	storageKind  string
	logLevel     string

	boardFormat string
	boardClear  bool

	historyLast   int
	historyWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "speedtype",
		Short:         "Timed typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTestCmd,
	}

	rootCmd.Flags().IntVar(&testDuration, "duration", model.DefaultDuration, "test duration in seconds (15, 30 or 60)")
	rootCmd.Flags().StringVar(&testTexts, "texts", "", "file with one sample sentence per line")
	rootCmd.PersistentFlags().StringVar(&storageKind, "storage", defaultStorage, "leaderboard storage: sqlite, file or memory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error, off)")

	rootCmd.AddCommand(newBoardCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newTextsCmd())

	return rootCmd
}

// resolveConfig layers flags over environment over the config file.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return model.Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ApplyEnv(&fileCfg); err != nil {
		return model.Config{}, err
	}
	if cmd.Flags().Lookup("duration") != nil {
		applyIntConfig(cmd, "duration", &testDuration, fileCfg.Test.Duration)
	}
	if cmd.Flags().Lookup("texts") != nil {
		applyStringConfig(cmd, "texts", &testTexts, fileCfg.Test.Texts)
	}
	applyStringConfig(cmd, "storage", &storageKind, fileCfg.Test.Storage)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)

	cfg := model.Config{
		Duration:  testDuration,
		TextsPath: testTexts,
		Storage:   strings.ToLower(strings.TrimSpace(storageKind)),
		LogLevel:  logLevel,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	texts := sample.Default
	if cfg.TextsPath != "" {
		texts, err = sample.LoadTexts(cfg.TextsPath)
		if err != nil {
			return fmt.Errorf("failed to load texts: %w", err)
		}
	}

	be, err := openBackend(cfg.Storage)
	if err != nil {
		return err
	}
	defer be.close()

	board := leaderboard.New(be.kv, log)
	board.Load(cmd.Context())

	opts := []session.Option{
		session.WithDuration(cfg.Duration),
		session.WithLogger(log),
	}
	if be.history != nil {
		opts = append(opts, session.WithHistory(be.history))
	}
	ctrl := session.New(sample.New(texts), board, opts...)

	log.Info("starting", zap.String("storage", cfg.Storage), zap.Int("duration", cfg.Duration), zap.Int("texts", len(texts)))
	program := tea.NewProgram(tui.NewModel(ctrl, board, log), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print the leaderboard",
		Args:  cobra.NoArgs,
		RunE:  runBoardCmd,
	}
	cmd.Flags().StringVar(&boardFormat, "format", stats.FormatTable, "output format: table, json or yaml")
	cmd.Flags().BoolVar(&boardClear, "clear", false, "remove all leaderboard entries")
	return cmd
}

func runBoardCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	be, err := openBackend(cfg.Storage)
	if err != nil {
		return err
	}
	defer be.close()

	board := leaderboard.New(be.kv, log)
	board.Load(cmd.Context())
	if boardClear {
		if err := board.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear leaderboard: %w", err)
		}
		logErrln("Leaderboard cleared")
		return nil
	}
	if err := stats.RenderBoard(cmd.OutOrStdout(), board.Entries(), boardFormat); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past tests (sqlite storage only)",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N tests")
	cmd.Flags().IntVar(&historyWindow, "window", defaultWindow, "moving average window")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if historyWindow <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Storage != storageSQLite {
		return fmt.Errorf("history is only recorded with --storage %s", storageSQLite)
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	report, err := stats.BuildReport(cmd.Context(), st, model.HistoryConfig{Last: historyLast, Window: historyWindow})
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderReport(out, report, stats.TerminalWidth(out)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Browse the leaderboard and history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit history to last N tests")
	cmd.Flags().IntVar(&historyWindow, "window", defaultWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	be, err := openBackend(cfg.Storage)
	if err != nil {
		return err
	}
	defer be.close()

	board := leaderboard.New(be.kv, log)
	board.Load(cmd.Context())

	var lister stats.SessionLister
	if be.history != nil {
		lister = be.history
	}
	ui := statsui.NewModel(board, lister, model.HistoryConfig{Last: historyLast, Window: historyWindow})
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newTextsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "texts",
		Short: "List the sample sentences in use",
		Args:  cobra.NoArgs,
		RunE:  runTextsCmd,
	}
	cmd.Flags().StringVar(&testTexts, "texts", "", "file with one sample sentence per line")
	return cmd
}

func runTextsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	texts := sample.Default
	if cfg.TextsPath != "" {
		texts, err = sample.LoadTexts(cfg.TextsPath)
		if err != nil {
			return fmt.Errorf("failed to load texts: %w", err)
		}
	}
	for _, text := range texts {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// backend bundles the leaderboard storage with the optional history store.
type backend struct {
	kv      leaderboard.Storage
	history *store.Store
	closers []func() error
}

func (b *backend) close() {
	for _, c := range b.closers {
		if err := c(); err != nil {
			logErrf("failed to close storage: %v\n", err)
		}
	}
}

func openBackend(kind string) (*backend, error) {
	switch kind {
	case storageSQLite:
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %w", err)
		}
		return &backend{kv: st, history: st, closers: []func() error{st.Close}}, nil
	case storageFile:
		return &backend{kv: store.NewFile(config.DefaultDataDir())}, nil
	case storageMemory:
		return &backend{kv: store.NewMemory()}, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", kind)
	}
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

// newLogger falls back to a no-op logger so a bad log path never blocks a test.
func newLogger(cfg model.Config) *zap.Logger {
	log, err := logging.New(config.DefaultLogPath(), cfg.LogLevel)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		return zap.NewNop()
	}
	return log
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# speedtype configuration
# Uncomment a value to enable it. Environment variables override config
# values and CLI flags override both.

[test]
# duration = %d           # Test length in seconds: 15, 30 or 60
# texts = ""              # File with one sample sentence per line
# storage = %q        # Leaderboard storage: sqlite, file or memory

[log]
# level = %q            # debug, info, warn, error or off
`,
		model.DefaultDuration,
		defaultStorage,
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if !model.ValidDuration(cfg.Duration) {
		return fmt.Errorf("--duration must be one of %v", model.Durations)
	}
	switch cfg.Storage {
	case storageSQLite, storageFile, storageMemory:
	default:
		return fmt.Errorf("--storage must be %s, %s or %s", storageSQLite, storageFile, storageMemory)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil && strings.ToLower(cfg.LogLevel) != logging.LevelOff {
		return fmt.Errorf("--log-level: %w", err)
	}
	if cfg.TextsPath != "" {
		if _, err := os.Stat(cfg.TextsPath); err != nil {
			return fmt.Errorf("--texts: %w", err)
		}
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
