package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"sf-content-upload/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Password(message string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Password(message string) (string, error) {
	result := ""
	prompt := &survey.Password{Message: message}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for the connected app and integration user credentials and
creates config.yaml.

The file is written with owner-only permissions because it holds secrets.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	if configPath == "" {
		configPath = defaultConfigFile
	}

	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite?", configPath), false)
		if err != nil {
			return fmt.Errorf("prompt cancelled: %w", err)
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to sf-content-upload setup!")
	fmt.Fprintln(out)

	cfg := &config.Config{}

	if err := promptInstance(prompter, cfg); err != nil {
		return err
	}

	if err := promptConnectedApp(prompter, cfg); err != nil {
		return err
	}

	if err := promptUser(prompter, cfg); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	for _, key := range cfg.Missing() {
		fmt.Fprintf(out, "  %s is empty. Set it with: %s\n", key, config.SuggestSetCommand(key))
	}
	return nil
}

func promptInstance(prompter Prompter, cfg *config.Config) error {
	instance, err := prompter.Input("Salesforce instance host (e.g. acme.my.salesforce.com)?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	if instance == "" {
		return fmt.Errorf("instance is required")
	}
	cfg.Salesforce.Instance = instance

	version, err := prompter.Input("REST API version?", config.DefaultAPIVersion)
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	if version == "" {
		version = config.DefaultAPIVersion
	}
	cfg.Salesforce.APIVersion = version

	return nil
}

func promptConnectedApp(prompter Prompter, cfg *config.Config) error {
	key, err := prompter.Input("Connected app consumer key?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	if key == "" {
		return fmt.Errorf("consumer key is required")
	}
	cfg.Salesforce.ConsumerKey = key

	secret, err := prompter.Password("Connected app consumer secret?")
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	cfg.Salesforce.ConsumerSecret = secret

	return nil
}

func promptUser(prompter Prompter, cfg *config.Config) error {
	username, err := prompter.Input("Integration username?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}
	cfg.Salesforce.Username = username

	password, err := prompter.Password("Password?")
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	cfg.Salesforce.Password = password

	token, err := prompter.Password("Security token (leave empty if your IP is trusted)?")
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	cfg.Salesforce.SecurityToken = token

	return nil
}
