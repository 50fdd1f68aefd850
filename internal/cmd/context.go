package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/framekit/framekit/internal/cmn/config"
	"github.com/framekit/framekit/internal/cmn/logger"
	"github.com/framekit/framekit/internal/cmn/logger/tag"
	"github.com/framekit/framekit/internal/timeline"
)

// Context holds the configuration for a command.
type Context struct {
	context.Context

	Command *cobra.Command
	Flags   []commandLineFlag
	Config  *config.Config
	Quiet   bool
}

// NewContext loads the configuration, applying the command's flags, and
// sets up the logger.
func NewContext(cmd *cobra.Command, flags []commandLineFlag) (*Context, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	v := viper.New()
	if err := bindFlags(v, cmd, flags...); err != nil {
		return nil, err
	}

	var loaderOpts []config.ConfigLoaderOption
	if cfgPath, _ := cmd.Flags().GetString("config"); cfgPath != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(cfgPath))
	}

	cfg, err := config.NewConfigLoader(v, loaderOpts...).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var opts []logger.Option
	if cfg.Core.Debug || os.Getenv("DEBUG") != "" {
		opts = append(opts, logger.WithDebug())
	}
	if cfg.Core.Quiet {
		opts = append(opts, logger.WithQuiet())
	}
	if cfg.Core.LogFormat != "" {
		opts = append(opts, logger.WithFormat(cfg.Core.LogFormat))
	}
	opts = append(opts, logger.WithConsole(cmd.ErrOrStderr()))

	ctx = logger.WithLogger(ctx, logger.NewLogger(opts...))
	ctx = config.WithConfig(ctx, cfg)

	for _, w := range cfg.Warnings {
		logger.Warn(ctx, w)
	}

	return &Context{
		Context: ctx,
		Command: cmd,
		Flags:   flags,
		Config:  cfg,
		Quiet:   cfg.Core.Quiet,
	}, nil
}

// TimelinePath returns the timeline argument, falling back to the
// configured default.
func (c *Context) TimelinePath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if c.Config.Paths.Timeline != "" {
		return c.Config.Paths.Timeline, nil
	}
	return "", fmt.Errorf("no timeline given and none configured")
}

// LoadTimeline loads the timeline named by args.
func (c *Context) LoadTimeline(args []string) (*timeline.Timeline, string, error) {
	path, err := c.TimelinePath(args)
	if err != nil {
		return nil, "", err
	}
	tl, err := timeline.Load(c, path)
	if err != nil {
		return nil, path, err
	}
	return tl, path, nil
}

// WithSignals returns a context cancelled on SIGINT or SIGTERM.
func (c *Context) WithSignals() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

// NewCommand creates a new command instance with the given cobra command and run function.
func NewCommand(cmd *cobra.Command, flags []commandLineFlag, runFunc func(cmd *Context, args []string) error) *cobra.Command {
	initFlags(cmd, flags...)
	cmd.SilenceUsage = true

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx, err := NewContext(cmd, flags)
		if err != nil {
			return fmt.Errorf("initialization error: %w", err)
		}
		if err := runFunc(ctx, args); err != nil {
			logger.Error(ctx.Context, "Command failed", tag.Error(err))
			return err
		}
		return nil
	}

	return cmd
}
