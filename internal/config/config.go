// Package config provides functionality for managing configuration options
// for the application using a .env file, command-line flags, a JSON file
// and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string

	// Config is the path to the JSON config file.
	Config string

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string
	TLSKey  string

	// SecureCookies marks the session cookie Secure. Forced on with TLS.
	SecureCookies bool

	SessionTTL     time.Duration
	RequestTimeout time.Duration

	// LogLevel is a zap level name.
	LogLevel string

	// SiteURL is the public base URL used in the sitemap.
	SiteURL string

	// Seed creates the administrator and sample content on startup.
	Seed          bool
	AdminEmail    string
	AdminPassword string
}

// fileOptions mirrors Options for JSON decoding; durations are strings
// such as "168h".
type fileOptions struct {
	Port           *string `json:"address"`
	DatabaseDSN    *string `json:"database_dsn"`
	TLSCert        *string `json:"tls_cert"`
	TLSKey         *string `json:"tls_key"`
	SecureCookies  *bool   `json:"secure_cookies"`
	SessionTTL     *string `json:"session_ttl"`
	RequestTimeout *string `json:"request_timeout"`
	LogLevel       *string `json:"log_level"`
	SiteURL        *string `json:"site_url"`
	Seed           *bool   `json:"seed"`
	AdminEmail     *string `json:"admin_email"`
}

// Defaults returns the options used when nothing overrides them.
func Defaults() *Options {
	return &Options{
		Port:           "localhost:8080",
		Config:         "config.json",
		SessionTTL:     7 * 24 * time.Hour,
		RequestTimeout: 10 * time.Second,
		LogLevel:       "info",
		SiteURL:        "http://localhost:8080",
	}
}

func newFlagSet(o *Options) *flag.FlagSet {
	set := flag.NewFlagSet("server", flag.ContinueOnError)
	set.StringVar(&o.Port, "a", o.Port, "run on ip:port server")
	set.StringVar(&o.DatabaseDSN, "d", o.DatabaseDSN, "db address")
	set.StringVar(&o.Config, "config", o.Config, "path to config file")
	set.StringVar(&o.Config, "c", o.Config, "path to config file (shorthand)")
	set.StringVar(&o.TLSCert, "tls-cert", o.TLSCert, "TLS certificate file")
	set.StringVar(&o.TLSKey, "tls-key", o.TLSKey, "TLS key file")
	set.BoolVar(&o.SecureCookies, "secure-cookies", o.SecureCookies, "mark session cookie Secure")
	set.DurationVar(&o.SessionTTL, "session-ttl", o.SessionTTL, "session lifetime")
	set.DurationVar(&o.RequestTimeout, "timeout", o.RequestTimeout, "per-request timeout")
	set.StringVar(&o.LogLevel, "l", o.LogLevel, "log level")
	set.StringVar(&o.SiteURL, "site-url", o.SiteURL, "public base URL")
	set.BoolVar(&o.Seed, "seed", o.Seed, "seed admin and sample content on start")
	return set
}

// Parse builds Options from args (without the program name). Sources are
// applied in increasing priority: defaults, JSON file, flags, environment.
// A .env file in the working directory is loaded into the environment
// first; variables already set win over it.
func Parse(args []string) (*Options, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// First pass only locates the config file.
	probe := Defaults()
	if err := newFlagSet(probe).Parse(args); err != nil {
		return nil, err
	}
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		probe.Config = configPath
	}

	options := Defaults()
	options.Config = probe.Config
	if err := options.loadFile(); err != nil {
		return nil, err
	}

	if err := newFlagSet(options).Parse(args); err != nil {
		return nil, err
	}
	options.Config = probe.Config

	if err := options.loadEnv(); err != nil {
		return nil, err
	}
	if options.TLSCert != "" {
		options.SecureCookies = true
	}
	return options, options.Validate()
}

func (o *Options) loadFile() error {
	if o.Config == "" {
		return nil
	}
	data, err := os.ReadFile(o.Config)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}

	var f fileOptions
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}

	setString(&o.Port, f.Port)
	setString(&o.DatabaseDSN, f.DatabaseDSN)
	setString(&o.TLSCert, f.TLSCert)
	setString(&o.TLSKey, f.TLSKey)
	setString(&o.LogLevel, f.LogLevel)
	setString(&o.SiteURL, f.SiteURL)
	setString(&o.AdminEmail, f.AdminEmail)
	if f.SecureCookies != nil {
		o.SecureCookies = *f.SecureCookies
	}
	if f.Seed != nil {
		o.Seed = *f.Seed
	}
	if err := setDuration(&o.SessionTTL, f.SessionTTL, "session_ttl"); err != nil {
		return err
	}
	return setDuration(&o.RequestTimeout, f.RequestTimeout, "request_timeout")
}

func (o *Options) loadEnv() error {
	strs := map[string]*string{
		"SERVER_ADDRESS": &o.Port,
		"DATABASE_DSN":   &o.DatabaseDSN,
		"TLS_CERT":       &o.TLSCert,
		"TLS_KEY":        &o.TLSKey,
		"LOG_LEVEL":      &o.LogLevel,
		"SITE_URL":       &o.SiteURL,
		"ADMIN_EMAIL":    &o.AdminEmail,
		"ADMIN_PASSWORD": &o.AdminPassword,
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"SECURE_COOKIES": &o.SecureCookies,
		"SEED":           &o.Seed,
	}
	for name, dst := range bools {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = b
	}

	durations := map[string]*time.Duration{
		"SESSION_TTL":     &o.SessionTTL,
		"REQUEST_TIMEOUT": &o.RequestTimeout,
	}
	for name, dst := range durations {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if err := setDuration(dst, &v, name); err != nil {
			return err
		}
	}
	return nil
}

// Validate reports combinations the server cannot start with.
func (o *Options) Validate() error {
	if o.DatabaseDSN == "" {
		return errors.New("database DSN is required (-d or DATABASE_DSN)")
	}
	if (o.TLSCert == "") != (o.TLSKey == "") {
		return errors.New("TLS certificate and key must be set together")
	}
	if o.SessionTTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	if o.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if o.Seed && (o.AdminEmail == "" || o.AdminPassword == "") {
		return errors.New("seeding requires ADMIN_EMAIL and ADMIN_PASSWORD")
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, name string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}
