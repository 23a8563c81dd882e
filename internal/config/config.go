// Package config provides functionality for managing configuration options
// for the application using command-line flags, a config file and
// environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string `yaml:"address"`

	// CatalogFile is the CSV file backing the course catalog.
	CatalogFile string `yaml:"catalog_file"`

	// AttachmentsDir holds one subdirectory of files per course code.
	AttachmentsDir string `yaml:"attachments_dir"`

	// AdminUser and AdminPassword are the single shared login credential.
	AdminUser     string `yaml:"admin_user"`
	AdminPassword string `yaml:"admin_password"`

	// AdminPasswordHash is an optional bcrypt hash used instead of AdminPassword.
	AdminPasswordHash string `yaml:"admin_password_hash"`

	// LogLevel is the zap level name.
	LogLevel string `yaml:"log_level"`

	// SessionTTL is how long an idle session survives. Zero disables expiry.
	SessionTTL time.Duration `yaml:"session_ttl"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `yaml:"tls_cert"`
	TLSKey  string `yaml:"tls_key"`

	// Config is the path to the config file (YAML or JSON).
	Config string `yaml:"-"`
}

// setting binds one string option to its flag and environment variable.
type setting struct {
	flag  string
	env   string
	usage string
	def   string
	field func(*Options) *string
}

var settings = []setting{
	{"a", "SERVER_ADDRESS", "run on ip:port server", "localhost:8080", func(o *Options) *string { return &o.Addr }},
	{"catalog", "CATALOG_FILE", "path to the catalog CSV file", "cursos.csv", func(o *Options) *string { return &o.CatalogFile }},
	{"attachments", "ATTACHMENTS_DIR", "directory with one folder of files per course", "www", func(o *Options) *string { return &o.AttachmentsDir }},
	{"user", "ADMIN_USER", "admin username", "admin", func(o *Options) *string { return &o.AdminUser }},
	{"password", "ADMIN_PASSWORD", "admin password", "", func(o *Options) *string { return &o.AdminPassword }},
	{"password-hash", "ADMIN_PASSWORD_HASH", "bcrypt hash of the admin password", "", func(o *Options) *string { return &o.AdminPasswordHash }},
	{"log-level", "LOG_LEVEL", "log level (debug, info, warn, error)", "info", func(o *Options) *string { return &o.LogLevel }},
	{"tls-cert", "TLS_CERT", "path to the TLS certificate", "", func(o *Options) *string { return &o.TLSCert }},
	{"tls-key", "TLS_KEY", "path to the TLS private key", "", func(o *Options) *string { return &o.TLSKey }},
}

const defaultSessionTTL = 8 * time.Hour

// Parse parses the command-line flags, the config file and environment
// variables. It exits the process on invalid configuration.
func Parse() *Options {
	options, err := parse(flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return options
}

// parse resolves the options with increasing precedence: defaults, config
// file, environment variables, explicitly set flags.
func parse(fs *flag.FlagSet, args []string, getenv func(string) string) (*Options, error) {
	options := &Options{SessionTTL: defaultSessionTTL}
	for _, s := range settings {
		*s.field(options) = s.def
	}

	flagged := *options
	for _, s := range settings {
		fs.StringVar(s.field(&flagged), s.flag, s.def, s.usage)
	}
	fs.DurationVar(&flagged.SessionTTL, "session-ttl", defaultSessionTTL, "idle session lifetime (0 disables expiry)")
	fs.StringVar(&flagged.Config, "config", "config.yaml", "path to config file")
	fs.StringVar(&flagged.Config, "c", "config.yaml", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	options.Config = flagged.Config
	if configPath := getenv("CONFIG"); configPath != "" && !set["config"] && !set["c"] {
		options.Config = configPath
	}
	if err := loadFile(options.Config, options); err != nil {
		return nil, err
	}

	for _, s := range settings {
		if v := getenv(s.env); v != "" {
			*s.field(options) = v
		}
	}
	if v := getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SESSION_TTL: %w", err)
		}
		options.SessionTTL = d
	}

	for _, s := range settings {
		if set[s.flag] {
			*s.field(options) = *s.field(&flagged)
		}
	}
	if set["session-ttl"] {
		options.SessionTTL = flagged.SessionTTL
	}

	if err := options.validate(); err != nil {
		return nil, err
	}
	return options, nil
}

// loadFile merges the config file into options. A missing file is not an
// error.
func loadFile(path string, options *Options) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, options); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (o *Options) validate() error {
	switch {
	case o.Addr == "":
		return errors.New("empty listen address")
	case o.CatalogFile == "":
		return errors.New("empty catalog file path")
	case o.AttachmentsDir == "":
		return errors.New("empty attachments directory")
	case strings.TrimSpace(o.AdminUser) == "":
		return errors.New("admin user is required")
	case strings.TrimSpace(o.AdminPassword) == "" && strings.TrimSpace(o.AdminPasswordHash) == "":
		return errors.New("admin password or password hash is required")
	case (o.TLSCert == "") != (o.TLSKey == ""):
		return errors.New("tls cert and key must be set together")
	case o.SessionTTL < 0:
		return errors.New("negative session ttl")
	}
	return nil
}
