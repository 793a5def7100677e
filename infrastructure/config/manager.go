package config

import (
	"errors"
	"fmt"
	"strings"

	"sf-content-upload/domain/auth"
)

// ErrUnknownKey is returned for keys that do not name a config field
var ErrUnknownKey = errors.New("unknown config key")

// field maps a dotted config key onto the Config struct
type field struct {
	key      string
	secret   bool
	required bool
	get      func(c *Config) string
	set      func(c *Config, v string)
}

var fields = []field{
	{
		key:      "salesforce.instance",
		required: true,
		get:      func(c *Config) string { return c.Salesforce.Instance },
		set:      func(c *Config, v string) { c.Salesforce.Instance = v },
	},
	{
		key: "salesforce.api_version",
		get: func(c *Config) string { return c.Salesforce.APIVersion },
		set: func(c *Config, v string) { c.Salesforce.APIVersion = v },
	},
	{
		key:      "salesforce.consumer_key",
		required: true,
		get:      func(c *Config) string { return c.Salesforce.ConsumerKey },
		set:      func(c *Config, v string) { c.Salesforce.ConsumerKey = v },
	},
	{
		key:      "salesforce.consumer_secret",
		secret:   true,
		required: true,
		get:      func(c *Config) string { return c.Salesforce.ConsumerSecret },
		set:      func(c *Config, v string) { c.Salesforce.ConsumerSecret = v },
	},
	{
		key:      "salesforce.username",
		required: true,
		get:      func(c *Config) string { return c.Salesforce.Username },
		set:      func(c *Config, v string) { c.Salesforce.Username = v },
	},
	{
		key:      "salesforce.password",
		secret:   true,
		required: true,
		get:      func(c *Config) string { return c.Salesforce.Password },
		set:      func(c *Config, v string) { c.Salesforce.Password = v },
	},
	{
		key:    "salesforce.security_token",
		secret: true,
		get:    func(c *Config) string { return c.Salesforce.SecurityToken },
		set:    func(c *Config, v string) { c.Salesforce.SecurityToken = v },
	},
	{
		key: "upload.url",
		get: func(c *Config) string { return c.Upload.URL },
		set: func(c *Config, v string) { c.Upload.URL = v },
	},
}

func lookupField(key string) (field, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, f := range fields {
		if f.key == key || strings.TrimPrefix(f.key, "salesforce.") == key {
			return f, nil
		}
	}
	return field{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Entry is a single config value as shown to the user
type Entry struct {
	Key    string
	Value  string // Masked when Secret is set
	Secret bool
}

// ConfigManager provides get/set operations on config entries
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Set updates a value and saves the file. Keys may omit the "salesforce." prefix.
// Only the file's own contents are written back; SF_* overrides stay in the environment.
func (m *ConfigManager) Set(key, value string) error {
	f, err := lookupField(key)
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)

	onDisk, err := readFile(m.configPath)
	if err != nil {
		return err
	}
	f.set(onDisk, value)
	if err := Save(onDisk, m.configPath); err != nil {
		return err
	}

	f.set(m.config, value)
	return nil
}

// Unset clears a value and saves the file
func (m *ConfigManager) Unset(key string) error {
	return m.Set(key, "")
}

// Get returns a single entry, masked if it is a secret
func (m *ConfigManager) Get(key string) (Entry, error) {
	f, err := lookupField(key)
	if err != nil {
		return Entry{}, err
	}
	return m.entry(f), nil
}

// List returns every entry in a stable order, secrets masked
func (m *ConfigManager) List() []Entry {
	result := make([]Entry, 0, len(fields))
	for _, f := range fields {
		result = append(result, m.entry(f))
	}
	return result
}

func (m *ConfigManager) entry(f field) Entry {
	value := f.get(m.config)
	if f.secret {
		value = auth.Redact(value)
	}
	return Entry{Key: f.key, Value: value, Secret: f.secret}
}

// Keys returns all settable keys
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.key)
	}
	return keys
}

// SuggestSetCommand returns the command to fill in a missing entry
func SuggestSetCommand(key string) string {
	return fmt.Sprintf(`sf-content-upload config set %s "<value>"`, key)
}
