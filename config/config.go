// Package config loads prscope configuration from YAML files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Rule model providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Config is the top-level configuration for prscope.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Rules    RulesConfig    `yaml:"rules"`
	Lint     LintConfig     `yaml:"lint"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr      string  `yaml:"addr" validate:"required"`
	RateLimit float64 `yaml:"rate_limit" validate:"gte=0"` // Requests per second; 0 disables limiting
	Burst     int     `yaml:"burst" validate:"gte=0"`
}

// AnalysisConfig configures the analyzer.
type AnalysisConfig struct {
	Scope   string `yaml:"scope" validate:"oneof=diff_only contextual full"`
	Workers int    `yaml:"workers" validate:"gte=1,lte=64"`
}

// RulesConfig configures the rule-compliance model.
type RulesConfig struct {
	Provider   string        `yaml:"provider" validate:"oneof=gemini openai none"`
	Model      string        `yaml:"model"`
	Path       string        `yaml:"path" validate:"required_unless=Provider none"`
	APIKey     string        `yaml:"api_key" validate:"required_unless=Provider none"`
	Endpoint   string        `yaml:"endpoint" validate:"omitempty,url"` // Azure OpenAI endpoint
	APIVersion string        `yaml:"api_version"`
	Deployment string        `yaml:"deployment"`
	Timeout    time.Duration `yaml:"timeout" validate:"gte=0"`
}

// LintConfig configures the external linters.
type LintConfig struct {
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	Tools   []string      `yaml:"tools" validate:"dive,oneof=pylint bandit"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 10,
			Burst:     20,
		},
		Analysis: AnalysisConfig{
			Scope:   "diff_only",
			Workers: 4,
		},
		Rules: RulesConfig{
			Timeout: 60 * time.Second,
		},
		Lint: LintConfig{
			Timeout: 15 * time.Second,
			Tools:   []string{"pylint", "bandit"},
		},
	}
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file on top of the defaults,
// expanding ${VAR} placeholders, applying environment overrides and
// validating the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyEnv(cfg, os.Getenv)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault returns the defaults with environment overrides applied.
func LoadDefault() (*Config, error) {
	cfg := Default()
	ApplyEnv(cfg, os.Getenv)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	locations := []string{"."}
	if homeDir, err := os.UserHomeDir(); err == nil && homeDir != "" {
		locations = append(locations, filepath.Join(homeDir, ".config"))
	}

	patterns := []string{
		".prscope.yaml",
		".prscope.yml",
		"prscope.yaml",
		"prscope.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ExpandEnv replaces ${VAR} references with environment values. Unset
// variables expand to the empty string.
func ExpandEnv(raw string) string {
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logrus.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

// ApplyEnv overrides cfg with well-known environment variables. When no
// provider is configured one is inferred from the API key that is set.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	r := &cfg.Rules

	if r.Provider == "" {
		switch {
		case getenv("OPENAI_API_KEY") != "":
			r.Provider = ProviderOpenAI
		case getenv("GEMINI_API_KEY") != "":
			r.Provider = ProviderGemini
		default:
			r.Provider = ProviderNone
		}
	}

	switch r.Provider {
	case ProviderOpenAI:
		setIf(&r.APIKey, getenv("OPENAI_API_KEY"))
		setIf(&r.Endpoint, getenv("AZURE_OPENAI_ENDPOINT"))
		setIf(&r.APIVersion, getenv("OPENAI_API_VERSION"))
	case ProviderGemini:
		setIf(&r.APIKey, getenv("GEMINI_API_KEY"))
	}

	setIf(&r.Path, getenv("RULES_PATH"))
	setIf(&r.Path, getenv("PDF_RULE_PATH"))
}

func setIf(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks cfg against its constraints and reports every
// violation by its YAML path.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch fe.Tag() {
		case "required", "required_unless":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
