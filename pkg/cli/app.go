package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mchmarny/punch/pkg/config"
	"github.com/mchmarny/punch/pkg/logging"
	urfave "github.com/urfave/cli/v3"
)

const (
	appName = "punch"

	debugFlagName     = "debug"
	configDirFlagName = "config-dir"
	formatFlagName    = "format"
	logLevelFlagName  = "log-level"
	logFileFlagName   = "log-file"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

type configKey struct{}

type appConfig struct {
	Dir    string
	Config *config.Config
	closer io.Closer
}

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func getConfig(ctx context.Context) *appConfig {
	if cfg, ok := ctx.Value(configKey{}).(*appConfig); ok {
		return cfg
	}
	return &appConfig{Config: config.Default()}
}

func newApp() *urfave.Command {
	return &urfave.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "Calculate punch damage and check it against the reference vectors",
		Flags: []urfave.Flag{
			&urfave.BoolFlag{
				Name:  debugFlagName,
				Usage: "Prints verbose logs (optional, default: false)",
			},
			&urfave.StringFlag{
				Name:    configDirFlagName,
				Usage:   "Directory holding config.yaml (default: $HOME/.punch)",
				Sources: urfave.EnvVars("PUNCH_CONFIG_DIR"),
			},
			&urfave.StringFlag{
				Name:    formatFlagName,
				Usage:   "Output format [text, json, yaml] (default: from config)",
				Sources: urfave.EnvVars("PUNCH_FORMAT"),
			},
			&urfave.StringFlag{
				Name:    logLevelFlagName,
				Usage:   "Log level [debug, info, warn, error] (default: from config)",
				Sources: urfave.EnvVars("PUNCH_LOG_LEVEL"),
			},
			&urfave.StringFlag{
				Name:  logFileFlagName,
				Usage: "Also write JSON logs to this rotating file",
			},
		},
		Commands: []*urfave.Command{
			newCalcCmd(),
			newVectorsCmd(),
		},
		Before: func(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
			dir := cmd.String(configDirFlagName)
			if dir == "" {
				d, _, err := config.GetOrCreateHomeDir(appName)
				if err != nil {
					return ctx, fmt.Errorf("resolving config dir: %w", err)
				}
				dir = d
			}

			c, err := config.ReadOrCreate(dir)
			if err != nil {
				return ctx, fmt.Errorf("loading config: %w", err)
			}

			if v := cmd.String(logLevelFlagName); v != "" {
				c.LogLevel = v
			}
			if cmd.Bool(debugFlagName) {
				c.LogLevel = "debug"
			}
			if v := cmd.String(logFileFlagName); v != "" {
				c.LogFile = v
			}

			cfg := &appConfig{
				Dir:    dir,
				Config: c,
				closer: logging.Setup(c.LogLevel, c.LogFile),
			}
			slog.Debug("config loaded", "dir", dir, "format", c.Format, "log_level", c.LogLevel)

			return context.WithValue(ctx, configKey{}, cfg), nil
		},
		After: func(ctx context.Context, _ *urfave.Command) error {
			if cfg, ok := ctx.Value(configKey{}).(*appConfig); ok && cfg.closer != nil {
				return cfg.closer.Close()
			}
			return nil
		},
	}
}

// outputFormat resolves the format flag, which may be set on any
// subcommand, against the configured default.
func outputFormat(ctx context.Context, cmd *urfave.Command) (string, error) {
	v := cmd.String(formatFlagName)
	if v == "" {
		v = getConfig(ctx).Config.Format
	}
	return config.ParseFormat(v)
}
