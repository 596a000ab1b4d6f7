package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dyike/docqa/internal/api"
	"github.com/dyike/docqa/internal/config"
	"github.com/dyike/docqa/internal/format"
	"github.com/dyike/docqa/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// BuildInfo is stamped by the linker
type BuildInfo struct {
	Version   string
	BuildTime string
}

// app carries the flags and the resources shared by every subcommand
type app struct {
	info BuildInfo

	// Global flags
	apiURL       string
	configPath   string
	outputFormat string
	timeout      time.Duration

	cfg    *config.Config
	format format.Format
	logger *zap.Logger
}

// printUsageTree generates usage from the cobra command tree
func printUsageTree(w io.Writer, root *cobra.Command) {
	var lines []string
	maxLen := 0

	var collect func(cmd *cobra.Command, prefix string)
	collect = func(cmd *cobra.Command, prefix string) {
		for _, sub := range cmd.Commands() {
			if sub.Hidden || sub.Name() == "help" || sub.Name() == "completion" {
				continue
			}
			if sub.HasSubCommands() {
				collect(sub, prefix+sub.Name()+" ")
			} else {
				use := prefix + sub.Use
				if len(use) > maxLen {
					maxLen = len(use)
				}
				lines = append(lines, use+"\t"+sub.Short)
			}
		}
	}
	collect(root, root.Name()+" ")

	fmt.Fprintln(w, "Usage:")
	for _, line := range lines {
		parts := strings.SplitN(line, "\t", 2)
		padding := maxLen - len(parts[0]) + 2
		if padding < 2 {
			padding = 2
		}
		fmt.Fprintf(w, "  %s%s- %s\n", parts[0], strings.Repeat(" ", padding), parts[1])
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, root.PersistentFlags().FlagUsages())
}

// NewRootCommand builds the docqa command tree
func NewRootCommand(info BuildInfo) *cobra.Command {
	a := &app{info: info}

	root := &cobra.Command{
		Use:           "docqa",
		Short:         "Terminal client for a private document Q&A service",
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd, "home")
		},
	}

	// Global flags
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "Backend base URL (overrides config and "+config.EnvAPIURL+")")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file path (default ~/.docqa/config.json)")
	root.PersistentFlags().StringVarP(&a.outputFormat, "format", "f", "text", "Output format (text|json|md)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "Per-request timeout (default from config)")

	// Subcommands
	root.AddCommand(newTUICmd(a))
	root.AddCommand(newLsCmd(a))
	root.AddCommand(newUploadCmd(a))
	root.AddCommand(newAskCmd(a))
	root.AddCommand(newResetCmd(a))
	root.AddCommand(newHealthCmd(a))

	root.SetUsageFunc(func(cmd *cobra.Command) error {
		if cmd.HasParent() {
			fmt.Fprint(cmd.OutOrStderr(), cmd.UsageString())
			return nil
		}
		printUsageTree(cmd.OutOrStderr(), cmd)
		return nil
	})

	// Version template
	root.SetVersionTemplate(fmt.Sprintf("docqa version %s (built %s)\n", orUnknown(info.Version), orUnknown(info.BuildTime)))

	return root
}

// Execute runs the command tree with ctx, which is cancelled on interrupt
func Execute(ctx context.Context, info BuildInfo) error {
	return NewRootCommand(info).ExecuteContext(ctx)
}

// setup loads configuration, applies flag overrides and opens the log
func (a *app) setup(cmd *cobra.Command) error {
	f, err := format.Parse(a.outputFormat)
	if err != nil {
		return err
	}
	a.format = f

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
	}
	if a.timeout > 0 {
		cfg.API.TimeoutSec = int(a.timeout.Round(time.Second) / time.Second)
		if cfg.API.TimeoutSec == 0 {
			cfg.API.TimeoutSec = 1
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	a.cfg = cfg

	logPath, err := cfg.GetLogPath()
	if err != nil {
		return err
	}
	l, err := logger.New(cfg.Log.Level, logPath)
	if err != nil {
		return err
	}
	a.logger = l.With(zap.String("cmd", cmd.Name()))
	return nil
}

// client returns an API client for the resolved base URL
func (a *app) client() *api.Client {
	return api.NewClient(a.cfg.API.BaseURL,
		api.WithTimeout(a.requestTimeout()),
		api.WithLogger(a.logger),
	)
}

func (a *app) requestTimeout() time.Duration {
	if a.timeout > 0 {
		return a.timeout
	}
	return time.Duration(a.cfg.API.TimeoutSec) * time.Second
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
