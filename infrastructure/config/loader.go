package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"sf-content-upload/domain/auth"
	"sf-content-upload/domain/content"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// DefaultAPIVersion is used when neither the file nor the environment sets one
const DefaultAPIVersion = "59.0"

// Config represents the complete application configuration
type Config struct {
	Salesforce SalesforceConfig `yaml:"salesforce"`
	Upload     UploadConfig     `yaml:"upload"`
}

// SalesforceConfig contains the connected app and integration user credentials
type SalesforceConfig struct {
	Instance       string `yaml:"instance" env:"SF_INSTANCE"`
	APIVersion     string `yaml:"api_version" env:"SF_API_VERSION" env-default:"59.0"`
	ConsumerKey    string `yaml:"consumer_key" env:"SF_CONSUMER_KEY"`
	ConsumerSecret string `yaml:"consumer_secret" env:"SF_CONSUMER_SECRET"`
	Username       string `yaml:"username" env:"SF_USERNAME"`
	Password       string `yaml:"password" env:"SF_PASSWORD"`
	SecurityToken  string `yaml:"security_token" env:"SF_SECURITY_TOKEN"`
}

// UploadConfig contains upload settings
type UploadConfig struct {
	// URL overrides the ContentVersion endpoint derived from instance and API version
	URL string `yaml:"url,omitempty" env:"SF_UPLOAD_URL"`
}

// Load reads the YAML file, then applies SF_* environment overrides
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv builds the configuration from SF_* environment variables only
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, nil
}

// readFile decodes the YAML file as written, without environment overrides or
// defaults. A missing file yields an empty Config.
func readFile(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to the specified YAML file.
// The file holds credentials, so it is only readable by the owner.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Credentials returns the credentials for the token exchange
func (c *Config) Credentials() auth.Credentials {
	return auth.Credentials{
		Instance:       c.Salesforce.Instance,
		APIVersion:     c.apiVersion(),
		ConsumerKey:    c.Salesforce.ConsumerKey,
		ConsumerSecret: c.Salesforce.ConsumerSecret,
		Username:       c.Salesforce.Username,
		Password:       c.Salesforce.Password,
		SecurityToken:  c.Salesforce.SecurityToken,
	}
}

// UploadURL returns the configured override or the instance's ContentVersion endpoint
func (c *Config) UploadURL() string {
	if c.Upload.URL != "" {
		return c.Upload.URL
	}
	return content.ContentVersionURL(c.Salesforce.Instance, c.apiVersion())
}

// Missing lists the credential keys that are not set.
// It is informational only; the token endpoint is the authority.
func (c *Config) Missing() []string {
	var missing []string
	for _, f := range fields {
		if f.get(c) == "" && f.required {
			missing = append(missing, f.key)
		}
	}
	return missing
}

func (c *Config) apiVersion() string {
	if c.Salesforce.APIVersion == "" {
		return DefaultAPIVersion
	}
	return c.Salesforce.APIVersion
}
