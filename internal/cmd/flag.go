package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type commandLineFlag struct {
	name, shorthand, defaultValue, usage string
	required                             bool
	// isBool registers a boolean flag.
	isBool bool
	// key is the viper key the flag overrides. Empty means the flag is
	// not a configuration setting.
	key string
}

var (
	configFlag = commandLineFlag{
		name:      "config",
		shorthand: "c",
		usage:     "config file (default is $XDG_CONFIG_HOME/framekit/config.yaml)",
	}
	quietFlag = commandLineFlag{
		name:      "quiet",
		shorthand: "q",
		usage:     "suppress log output",
		isBool:    true,
		key:       "quiet",
	}
	debugFlag = commandLineFlag{
		name:   "debug",
		usage:  "enable debug logging",
		isBool: true,
		key:    "debug",
	}
	logFormatFlag = commandLineFlag{
		name:  "log-format",
		usage: "log format, text or json",
		key:   "logFormat",
	}
	fpsFlag = commandLineFlag{
		name:      "fps",
		shorthand: "f",
		usage:     "frames per second (default 60)",
		key:       "fps",
	}
	simulateFlag = commandLineFlag{
		name:      "simulate",
		shorthand: "s",
		usage:     "play on a deterministic clock instead of real time",
		isBool:    true,
		key:       "simulate",
	}
	maxDurationFlag = commandLineFlag{
		name:  "max-duration",
		usage: "stop playback after this much frame time (default 30s)",
		key:   "maxDuration",
	}
)

var commonFlags = []commandLineFlag{configFlag, quietFlag, debugFlag, logFormatFlag}

func initFlags(cmd *cobra.Command, addFlags ...commandLineFlag) {
	for _, flag := range slices.Concat(commonFlags, addFlags) {
		if flag.isBool {
			cmd.Flags().BoolP(flag.name, flag.shorthand, false, flag.usage)
		} else {
			cmd.Flags().StringP(flag.name, flag.shorthand, flag.defaultValue, flag.usage)
		}
		if flag.required {
			if err := cmd.MarkFlagRequired(flag.name); err != nil {
				fmt.Printf("failed to mark flag %s as required: %v\n", flag.name, err)
			}
		}
	}
}

// bindFlags binds the flags that were set on the command line to their
// configuration keys, so they take precedence over file and environment.
func bindFlags(v *viper.Viper, cmd *cobra.Command, flags ...commandLineFlag) error {
	for _, flag := range slices.Concat(commonFlags, flags) {
		if flag.key == "" {
			continue
		}
		f := cmd.Flags().Lookup(flag.name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(flag.key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag.name, err)
		}
	}
	return nil
}
