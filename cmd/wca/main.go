package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/config"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/logging"
)

var version = "dev"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	dateOrder  string
	strict     bool
	logLevel   string

	cfg *config.Config
	log *slog.Logger
}

func main() {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "wca",
		Short:         "WhatsApp Chat Analyzer - statistics, search and reports for chat exports",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (default ~/.config/wca/config.toml)")
	pf.StringVar(&a.dateOrder, "date-order", "", "Date field order of the export: auto, mdy or dmy")
	pf.BoolVar(&a.strict, "strict", false, "Fail on malformed lines instead of dropping them")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(parseCmd(a))
	rootCmd.AddCommand(statsCmd(a))
	rootCmd.AddCommand(reportCmd(a))
	rootCmd.AddCommand(searchCmd(a))
	rootCmd.AddCommand(previewCmd(a))
	rootCmd.AddCommand(openCmd(a))
	rootCmd.AddCommand(browseCmd(a))
	rootCmd.AddCommand(serveCmd(a))
	rootCmd.AddCommand(doctorCmd(a))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "wca:", err)
		os.Exit(1)
	}
}

// setup loads the config, applies flag overrides and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("date-order") {
		a.cfg.DateOrder = a.dateOrder
	}
	if flags.Changed("strict") {
		a.cfg.Strict = a.strict
	}
	if flags.Changed("log-level") {
		a.cfg.LogLevel = a.logLevel
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	a.log = logging.Setup(os.Stderr, a.cfg.LogLevel, a.cfg.LogFormat)
	return nil
}
