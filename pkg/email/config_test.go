package email

import (
	"testing"

	"github.com/Alijeyrad/simorq_mailer/config"
)

func validSettings() Settings {
	return Settings{
		Host:     "smtp.test.com",
		Port:     "587",
		Username: "test@test.com",
		Password: "password",
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantMsg string
	}{
		{name: "valid", mutate: func(*Settings) {}},
		{
			name:    "missing host",
			mutate:  func(s *Settings) { s.Host = "" },
			wantMsg: "EmailHost configuration is missing",
		},
		{
			name:    "whitespace host",
			mutate:  func(s *Settings) { s.Host = "   " },
			wantMsg: "EmailHost configuration is missing",
		},
		{
			name:    "non-numeric port",
			mutate:  func(s *Settings) { s.Port = "smtp" },
			wantMsg: "Invalid Port configuration",
		},
		{
			name:    "zero port",
			mutate:  func(s *Settings) { s.Port = "0" },
			wantMsg: "Invalid Port configuration",
		},
		{
			name:    "negative port",
			mutate:  func(s *Settings) { s.Port = "-25" },
			wantMsg: "Invalid Port configuration",
		},
		{
			name:    "empty port",
			mutate:  func(s *Settings) { s.Port = "" },
			wantMsg: "Invalid Port configuration",
		},
		{
			name:    "missing username",
			mutate:  func(s *Settings) { s.Username = "" },
			wantMsg: "EmailUsername configuration is missing",
		},
		{
			name:    "missing password",
			mutate:  func(s *Settings) { s.Password = " " },
			wantMsg: "EmailPassword configuration is missing",
		},
		{
			name: "host reported before port",
			mutate: func(s *Settings) {
				s.Host = ""
				s.Port = "bad"
				s.Password = ""
			},
			wantMsg: "EmailHost configuration is missing",
		},
		{
			name: "port reported before username",
			mutate: func(s *Settings) {
				s.Port = "bad"
				s.Username = ""
			},
			wantMsg: "Invalid Port configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)

			r, err := s.resolve()
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("resolve() error = %v", err)
				}
				if r.Port != 587 || r.Host != "smtp.test.com" {
					t.Errorf("resolve() = %+v", r)
				}
				return
			}

			if err == nil {
				t.Fatalf("resolve() expected error %q", tt.wantMsg)
			}
			if !IsKind(err, KindConfiguration) {
				t.Errorf("KindOf(err) = %v, want %v", KindOf(err), KindConfiguration)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("err = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestFromStore_ReadsCurrentConfig(t *testing.T) {
	store := config.NewStore(&config.Config{Email: config.EmailConfig{Host: "a.example.com", Port: "25"}})
	src := FromStore(store)

	if got := src.Settings().Host; got != "a.example.com" {
		t.Fatalf("Host = %q, want a.example.com", got)
	}

	store.Set(&config.Config{Email: config.EmailConfig{Host: "b.example.com", Port: "26"}})
	got := src.Settings()
	if got.Host != "b.example.com" || got.Port != "26" {
		t.Errorf("Settings() after reload = %+v", got)
	}
}

func TestFromStore_Empty(t *testing.T) {
	src := FromStore(&config.Store{})
	if got := src.Settings(); got != (Settings{}) {
		t.Errorf("Settings() = %+v, want zero value", got)
	}
}
