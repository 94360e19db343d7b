package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/jontk/fsdash/internal/logging"
	"github.com/spf13/viper"
)

// Watch re-reads the config file whenever it changes and passes the fixed-up
// result to onChange. overrides, when set, is applied to every reloaded config
// before validation so command-line flags keep winning over the file. Invalid
// edits are logged and skipped. Watch is a no-op when no config file was found
// at load time.
func Watch(cfg *Config, overrides func(*Config), onChange func(*Config)) {
	if cfg == nil || cfg.SourceFile == "" {
		return
	}

	v := newViper(cfg.SourceFile)
	if err := v.ReadInConfig(); err != nil {
		logging.Warnf("Config watch disabled: %v", err)
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			logging.Debugf("Ignoring %s on %s", e.Op, e.Name)
			return
		}

		next, err := reload(v, overrides)
		if err != nil {
			logging.Warnf("Ignoring config change in %s: %v", e.Name, err)
			return
		}

		logging.Infof("Configuration reloaded from %s", e.Name)
		onChange(next)
	})
	v.WatchConfig()
}

// reload decodes the current contents of v, layers overrides on top and
// validates the result
func reload(v *viper.Viper, overrides func(*Config)) (*Config, error) {
	next, err := decode(v)
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		overrides(next)
	}
	if err := ValidateAndFix(next, true).Err(); err != nil {
		return nil, err
	}
	return next, nil
}
