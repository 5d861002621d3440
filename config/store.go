package config

import (
	"log/slog"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Store holds the active configuration. Readers always see a complete
// Config; reloads swap the pointer.
type Store struct {
	cur atomic.Pointer[Config]
}

func NewStore(cfg *Config) *Store {
	s := &Store{}
	s.Set(cfg)
	return s
}

func (s *Store) Current() *Config {
	return s.cur.Load()
}

func (s *Store) Set(cfg *Config) {
	if cfg == nil {
		return
	}
	s.cur.Store(cfg)
}

// Watch re-decodes the config file on change and publishes it to s.
// A file that fails to decode or validate is ignored and the previous
// config stays active.
func Watch(v *viper.Viper, s *Store) {
	if v.ConfigFileUsed() == "" {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := decode(v)
		if err != nil {
			slog.Warn("config reload rejected", "file", e.Name, "error", err)
			return
		}
		s.Set(cfg)
		slog.Info("config reloaded", "file", e.Name)
	})
	v.WatchConfig()
}
