// Package config reads the actup configuration file.
// The file is looked up at .actup.yaml or .github/actup.yaml unless a path is given,
// and every field has a default so that actup works without any configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Version       int            `json:"version,omitempty" jsonschema:"enum=1"`
	Database      *Database      `json:"database,omitempty"`
	Workspace     string         `json:"workspace,omitempty" jsonschema:"description=Directory for checkouts and usage batches. The default is tmp"`
	TrackerFile   string         `json:"tracker_file,omitempty" yaml:"tracker_file" jsonschema:"description=Markdown ledger of created pull requests. The default is PR_TRACKER.md"`
	MetricsFile   string         `json:"metrics_file,omitempty" yaml:"metrics_file" jsonschema:"description=If set, remediation outcome counters are written to this Prometheus textfile"`
	GitHub        *GitHub        `json:"github,omitempty"`
	Retry         *Retry         `json:"retry,omitempty"`
	Fork          *Fork          `json:"fork,omitempty"`
	TemplateMerge *TemplateMerge `json:"template_merge,omitempty" yaml:"template_merge"`
}

type Database struct {
	Driver string `json:"driver,omitempty" jsonschema:"enum=sqlite,enum=postgres"`
	DSN    string `json:"dsn,omitempty" jsonschema:"description=Data source name. For sqlite this is a file path. The default is actup.db"`
}

type GitHub struct {
	TokenEnv string `json:"token_env,omitempty" yaml:"token_env" jsonschema:"description=Environment variable holding the GitHub access token. The default is GITHUB_TOKEN"`
	Identity string `json:"identity,omitempty" jsonschema:"description=Login whose pull requests count as created by actup. The default is the authenticated user"`
}

type Retry struct {
	Attempts int           `json:"attempts,omitempty" jsonschema:"description=Maximum number of attempts for idempotent GitHub API calls. The default is 3"`
	Delay    time.Duration `json:"delay,omitempty" jsonschema:"description=Fixed delay between attempts. The default is 10s"`
}

type Fork struct {
	SettleDelay time.Duration `json:"settle_delay,omitempty" yaml:"settle_delay" jsonschema:"description=Wait time after requesting a fork. The default is 5s"`
}

type TemplateMerge struct {
	Enabled   bool   `json:"enabled,omitempty"`
	OllamaURL string `json:"ollama_url,omitempty" yaml:"ollama_url"`
	Model     string `json:"model,omitempty"`
}

const (
	defaultDSN         = "actup.db"
	defaultWorkspace   = "tmp"
	defaultTrackerFile = "PR_TRACKER.md"
	defaultTokenEnv    = "GITHUB_TOKEN"
	defaultAttempts    = 3
	defaultRetryDelay  = 10 * time.Second
	defaultSettleDelay = 5 * time.Second
	defaultOllamaURL   = "http://localhost:11434"
	defaultModel       = "qwen3:1.7b"
)

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Database == nil {
		c.Database = &Database{}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.DSN == "" && c.Database.Driver == DriverSQLite {
		c.Database.DSN = defaultDSN
	}
	if c.Workspace == "" {
		c.Workspace = defaultWorkspace
	}
	if c.TrackerFile == "" {
		c.TrackerFile = defaultTrackerFile
	}
	if c.GitHub == nil {
		c.GitHub = &GitHub{}
	}
	if c.GitHub.TokenEnv == "" {
		c.GitHub.TokenEnv = defaultTokenEnv
	}
	if c.Retry == nil {
		c.Retry = &Retry{}
	}
	if c.Retry.Attempts == 0 {
		c.Retry.Attempts = defaultAttempts
	}
	if c.Retry.Delay == 0 {
		c.Retry.Delay = defaultRetryDelay
	}
	if c.Fork == nil {
		c.Fork = &Fork{SettleDelay: defaultSettleDelay}
	}
	if c.TemplateMerge == nil {
		c.TemplateMerge = &TemplateMerge{}
	}
	if c.TemplateMerge.OllamaURL == "" {
		c.TemplateMerge.OllamaURL = defaultOllamaURL
	}
	if c.TemplateMerge.Model == "" {
		c.TemplateMerge.Model = defaultModel
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return errors.New("database.driver must be sqlite or postgres")
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.Retry.Attempts < 1 {
		return errors.New("retry.attempts must be greater than 0")
	}
	if c.Retry.Delay < 0 {
		return errors.New("retry.delay must not be negative")
	}
	return nil
}

// CheckoutDir is the directory where fetch-repos places sparse checkouts.
func (c *Config) CheckoutDir() string {
	return filepath.Join(c.Workspace, "cloned_repos")
}

// UsageDir is the directory where scan-repos writes usage batches.
func (c *Config) UsageDir() string {
	return filepath.Join(c.Workspace, "action_usage")
}

// PRDir is the directory where create-prs clones forks.
func (c *Config) PRDir() string {
	return filepath.Join(c.Workspace, "pr")
}

func getConfigPath(fs afero.Fs) (string, error) {
	for _, path := range []string{".actup.yaml", ".github/actup.yaml", ".actup.yml", ".github/actup.yml"} {
		f, err := afero.Exists(fs, path)
		if err != nil {
			return "", fmt.Errorf("check if %s exists: %w", path, err)
		}
		if f {
			return path, nil
		}
	}
	return "", nil
}

type Finder struct {
	fs afero.Fs
}

func NewFinder(fs afero.Fs) *Finder {
	return &Finder{fs: fs}
}

func (f *Finder) Find(configFilePath string) (string, error) {
	if configFilePath != "" {
		return configFilePath, nil
	}
	return getConfigPath(f.fs)
}

type Reader struct {
	fs afero.Fs
}

func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

// Read decodes configFilePath into cfg, then applies defaults and validates cfg.
// An empty configFilePath yields the default configuration.
func (r *Reader) Read(cfg *Config, configFilePath string) error {
	if configFilePath != "" {
		if err := r.decode(cfg, configFilePath); err != nil {
			return err
		}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate the configuration: %w", err)
	}
	return nil
}

func (r *Reader) decode(cfg *Config, configFilePath string) error {
	f, err := r.fs.Open(configFilePath)
	if err != nil {
		return fmt.Errorf("open a configuration file: %w", err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode a configuration file as YAML: %w", err)
	}
	return nil
}
