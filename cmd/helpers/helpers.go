package helpers

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// LogOptions configures the root logger.
type LogOptions struct {
	Level            string
	FullTimestamp    bool
	DisableTimestamp bool
	JSON             bool
}

// SetupLogger builds the root logrus FieldLogger with the given level,
// formatter and fields.
func SetupLogger(opts LogOptions, fields log.Fields) (log.FieldLogger, error) {
	logLevel, err := log.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %v", opts.Level, err)
	}

	base := log.New()
	base.SetOutput(os.Stderr)
	base.SetLevel(logLevel)
	if opts.JSON {
		base.SetFormatter(&log.JSONFormatter{
			DisableTimestamp: opts.DisableTimestamp,
		})
	} else {
		base.SetFormatter(&log.TextFormatter{
			FullTimestamp:    opts.FullTimestamp,
			DisableTimestamp: opts.DisableTimestamp,
		})
	}

	logger := base.WithFields(fields)
	logger.Debugf("setting log level to %s", logLevel.String())
	return logger, nil
}

// MapEnvVarToFlag takes a mapping of ENV var names to flag names and sets
// each flag that wasn't given on the command line from its ENV var.
func MapEnvVarToFlag(vars map[string]string, flagset *pflag.FlagSet) error {
	for env, flag := range vars {
		flagObj := flagset.Lookup(flag)
		if flagObj == nil {
			return fmt.Errorf("the %s flag doesn't exist", flag)
		}
		if flagObj.Changed {
			continue
		}

		if val := os.Getenv(env); val != "" {
			if err := flagset.Set(flag, val); err != nil {
				return fmt.Errorf("failed to set the %s flag from %s: %v", flag, env, err)
			}
		}
	}

	return nil
}

// SetFlagsFromEnv sets every flag of the flagset that wasn't given on the
// command line from an environment variable named after it: the prefix, an
// underscore, then the flag name in upper case with dashes replaced by
// underscores. For example, with prefix=PREFIX: some-flag => PREFIX_SOME_FLAG
func SetFlagsFromEnv(fs *pflag.FlagSet, prefix string) (err error) {
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		key := prefix + "_" + strings.ToUpper(strings.Replace(f.Name, "-", "_", -1))
		val := os.Getenv(key)
		if val == "" {
			return
		}
		if serr := fs.Set(f.Name, val); serr != nil {
			err = fmt.Errorf("invalid value %q for %s: %v", val, key, serr)
		}
	})
	return err
}
