package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// Driver is the database driver (sqlite)
	Driver string
	// DSN points to where meetsense stores its own data
	DSN string
	// Version is the current version of server
	Version string

	// Timezone is the local zone business hours and hint resolution are
	// evaluated in (default: Asia/Kolkata)
	Timezone string

	// CalendarProvider selects the availability backend: "store", "ics" or
	// "static"
	CalendarProvider string
	// ICSFeeds maps participant addresses to ICS feed URLs
	ICSFeeds map[string]string

	// Completion backend configuration
	CompletionEnabled bool    // MEETSENSE_COMPLETION_ENABLED
	CompletionBaseURL string  // MEETSENSE_COMPLETION_BASE_URL
	CompletionAPIKey  string  // MEETSENSE_COMPLETION_API_KEY
	CompletionModel   string  // MEETSENSE_COMPLETION_MODEL
	CompletionTimeout time.Duration

	// Request rate limiting
	RateLimitRPS   int
	RateLimitBurst int
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsCompletionEnabled reports whether the completion backend is usable.
func (p *Profile) IsCompletionEnabled() bool {
	return p.CompletionEnabled && p.CompletionBaseURL != ""
}

// Location resolves the configured timezone, falling back to UTC.
func (p *Profile) Location() *time.Location {
	if loc, err := time.LoadLocation(p.Timezone); err == nil {
		return loc
	}
	return time.UTC
}

// Validate normalizes the profile and rejects unusable combinations.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		p.Data = "/var/opt/meetsense"
	}
	if p.Data == "" {
		p.Data = "."
	}
	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return errors.Wrap(err, "invalid data directory")
	}
	p.Data = dataDir

	switch p.Driver {
	case "sqlite", "":
		p.Driver = "sqlite"
		if p.DSN == "" {
			p.DSN = filepath.Join(p.Data, fmt.Sprintf("meetsense_%s.db", p.Mode))
		}
	default:
		return errors.Errorf("unsupported database driver %q", p.Driver)
	}

	switch p.CalendarProvider {
	case "store", "static", "":
		if p.CalendarProvider == "" {
			p.CalendarProvider = "store"
		}
	case "ics":
		if len(p.ICSFeeds) == 0 {
			return errors.New("calendar provider ics requires at least one feed")
		}
	default:
		return errors.Errorf("unsupported calendar provider %q", p.CalendarProvider)
	}

	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return errors.Wrapf(err, "unknown timezone %q", p.Timezone)
	}

	return nil
}

// GetProfile reads the profile from viper-bound flags and environment.
func GetProfile() (*Profile, error) {
	profile := Profile{
		Mode:              viper.GetString("mode"),
		Addr:              viper.GetString("addr"),
		Port:              viper.GetInt("port"),
		Data:              viper.GetString("data"),
		Driver:            viper.GetString("driver"),
		DSN:               viper.GetString("dsn"),
		Timezone:          viper.GetString("timezone"),
		CalendarProvider:  viper.GetString("calendar-provider"),
		ICSFeeds:          viper.GetStringMapString("ics-feeds"),
		CompletionEnabled: viper.GetBool("completion-enabled"),
		CompletionBaseURL: viper.GetString("completion-base-url"),
		CompletionAPIKey:  viper.GetString("completion-api-key"),
		CompletionModel:   viper.GetString("completion-model"),
		CompletionTimeout: viper.GetDuration("completion-timeout"),
		RateLimitRPS:      viper.GetInt("rate-limit-rps"),
		RateLimitBurst:    viper.GetInt("rate-limit-burst"),
		Version:           "0.1.0",
	}
	if profile.Timezone == "" {
		profile.Timezone = "Asia/Kolkata"
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

func checkDataDir(dataDir string) (string, error) {
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}
	dataDir = filepath.Clean(dataDir)
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data directory %s", dataDir)
	}
	return dataDir, nil
}
