// Package main provides the CLI entrypoint for basedash.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/verte-zerg/basedash/internal/auth"
	"github.com/verte-zerg/basedash/internal/config"
	"github.com/verte-zerg/basedash/internal/dashui"
	"github.com/verte-zerg/basedash/internal/formfill"
	"github.com/verte-zerg/basedash/internal/loader"
	"github.com/verte-zerg/basedash/internal/model"
)

const (
	defaultPageSize = 100
	defaultWait     = 2 * time.Second
)

var (
	dataDir    string
	file       string
	sheets     []string
	password   string
	pageSize   int
	fillURL    string
	holderName string
	headless   bool
	fillWait   time.Duration
	verbose    bool

	logger = zap.NewNop()
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "basedash",
		Short: "Terminal dashboard for approval-status records",
		Long: `basedash loads CSV or Excel records and breaks their approval status down
by normalized base name.

Run without a subcommand to start the interactive dashboard.`,
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: initLogger,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
		RunE: runDashboardCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data-dir", config.DefaultDataDir(), "data folder searched for bare file names")
	pf.StringVar(&file, "file", "", "CSV or XLSX file to load")
	pf.StringSliceVar(&sheets, "sheet", nil, "XLSX sheet to load (repeatable, default: all)")
	pf.StringVar(&fillURL, "url", "", "payment form URL for test card filling")
	pf.StringVar(&holderName, "holder-name", formfill.DefaultHolderName, "cardholder name typed into the form")
	pf.BoolVar(&headless, "headless", false, "run the form browser headless")
	pf.DurationVar(&fillWait, "wait", defaultWait, "delay after the form page loads")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.Flags().StringVar(&password, "password", "", "dashboard password (also $"+auth.EnvPassword+")")
	rootCmd.Flags().IntVar(&pageSize, "page-size", defaultPageSize, "rows shown per table")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newBasesCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newCombineCmd())
	rootCmd.AddCommand(newFilesCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newFillCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// initLogger sends dashboard logs to a file so the alternate screen stays
// intact. Subcommands log warnings to stderr unless --verbose is set.
func initLogger(cmd *cobra.Command, _ []string) error {
	cfg := zap.NewProductionConfig()
	switch {
	case verbose:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case cmd.HasParent():
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	if !cmd.HasParent() {
		path := config.DefaultLogPath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

// settings are the merged flag and config file values of one invocation.
type settings struct {
	cfg  model.Config
	gate *auth.Gate
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	dash, fill := fileCfg.Dashboard, fileCfg.Fill
	applyStringConfig(cmd, "data-dir", &dataDir, dash.DataDir)
	applyIntConfig(cmd, "page-size", &pageSize, dash.PageSize)
	applyStringConfig(cmd, "url", &fillURL, fill.URL)
	applyStringConfig(cmd, "holder-name", &holderName, fill.HolderName)
	applyBoolConfig(cmd, "headless", &headless, fill.Headless)
	applyDurationConfig(cmd, "wait", &fillWait, fill.Wait)

	cfg := model.Config{
		DataDir:    dataDir,
		File:       file,
		Sheets:     sheets,
		Password:   password,
		PageSize:   pageSize,
		FillURL:    fillURL,
		HolderName: holderName,
		Headless:   headless,
		FillWait:   fillWait,
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		return settings{}, err
	}

	var configPassword string
	if dash.Password != nil {
		configPassword = *dash.Password
	}
	return settings{cfg: cfg, gate: auth.Resolve(cfg.Password, configPassword)}, nil
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cfg := s.cfg
	if !s.gate.Enabled() {
		logger.Warn("dashboard started without a password")
	} else {
		logger.Info("dashboard password configured", zap.String("source", string(s.gate.Source())))
	}

	m := dashui.NewModel(dashui.Options{
		Loader:     loader.New(cfg.DataDir, logger),
		File:       cfg.File,
		Sheets:     cfg.Sheets,
		Gate:       s.gate,
		Filler:     newFiller(cfg, false, nil),
		HolderName: cfg.HolderName,
		PageSize:   cfg.PageSize,
		Log:        logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

// newFiller picks the form backend. Nil means form filling is not configured.
func newFiller(cfg model.Config, dryRun bool, out io.Writer) formfill.FormFiller {
	switch {
	case dryRun:
		return formfill.DryRunFiller{Out: out, Log: logger}
	case cfg.FillURL == "":
		return nil
	}
	return &formfill.BrowserFiller{
		URL:      cfg.FillURL,
		Headless: cfg.Headless,
		Wait:     cfg.FillWait,
		Log:      logger,
	}
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
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o600); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target, value *time.Duration) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# basedash configuration
# Uncomment a value to enable it. CLI flags override config values.

[dashboard]
# data-dir = %q
# password = ""           # Dashboard password ($%s takes precedence)
# page-size = %d          # Rows shown per table

[fill]
# url = "https://example.com/checkout"
# holder-name = %q
# headless = false        # Headed browsers stay open for review
# wait = %q               # Delay after the form page loads
`,
		config.DefaultDataDir(),
		auth.EnvPassword,
		defaultPageSize,
		formfill.DefaultHolderName,
		defaultWait.String(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		_ = err
	}
}
