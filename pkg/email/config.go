package email

import (
	"strconv"
	"strings"

	"github.com/Alijeyrad/simorq_mailer/config"
)

// Settings are the raw relay parameters as they appear in configuration.
// They are validated by Resolve on every send.
type Settings struct {
	Host               string
	Port               string
	Username           string
	Password           string
	InsecureSkipVerify bool
}

// SettingsSource yields the current relay settings. Implementations must be
// safe for concurrent use.
type SettingsSource interface {
	Settings() Settings
}

// SettingsFunc adapts a function to SettingsSource.
type SettingsFunc func() Settings

func (f SettingsFunc) Settings() Settings { return f() }

// StaticSettings is a SettingsSource that never changes.
type StaticSettings Settings

func (s StaticSettings) Settings() Settings { return Settings(s) }

// FromCentralConfig converts central config.EmailConfig to package Settings
func FromCentralConfig(c config.EmailConfig) Settings {
	return Settings{
		Host:               c.Host,
		Port:               c.Port,
		Username:           c.Username,
		Password:           c.Password,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
}

// FromStore reads the email section of the active config on every call.
func FromStore(s *config.Store) SettingsSource {
	return SettingsFunc(func() Settings {
		cfg := s.Current()
		if cfg == nil {
			return Settings{}
		}
		return FromCentralConfig(cfg.Email)
	})
}

type relay struct {
	Host               string
	Port               int
	Username           string
	Password           string
	InsecureSkipVerify bool
}

// Validate reports the first problem resolve would hit, without dialing.
func (s Settings) Validate() error {
	_, err := s.resolve()
	return err
}

// resolve validates host, port, username and password in that order and
// reports the first failure.
func (s Settings) resolve() (relay, error) {
	host := strings.TrimSpace(s.Host)
	if host == "" {
		return relay{}, configError("EmailHost configuration is missing")
	}

	port, err := strconv.Atoi(strings.TrimSpace(s.Port))
	if err != nil || port <= 0 {
		return relay{}, configError("Invalid Port configuration")
	}

	if strings.TrimSpace(s.Username) == "" {
		return relay{}, configError("EmailUsername configuration is missing")
	}
	if strings.TrimSpace(s.Password) == "" {
		return relay{}, configError("EmailPassword configuration is missing")
	}

	return relay{
		Host:               host,
		Port:               port,
		Username:           strings.TrimSpace(s.Username),
		Password:           s.Password,
		InsecureSkipVerify: s.InsecureSkipVerify,
	}, nil
}
