//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sf-content-upload/cmd"
	"sf-content-upload/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir         string
	configPath      string
	originalContent string
	output          bytes.Buffer
	err             error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses    []string
	passwordResponses []string
	confirmResponses  []bool
	inputIndex        int
	passwordIndex     int
	confirmIndex      int
}

func NewMockPrompter(inputs, passwords []string, confirms []bool) *MockPrompter {
	return &MockPrompter{
		inputResponses:    inputs,
		passwordResponses: passwords,
		confirmResponses:  confirms,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("no more input responses available for message: %s", message)
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	if response == "" {
		return defaultValue, nil
	}
	return response, nil
}

func (m *MockPrompter) Password(message string) (string, error) {
	if m.passwordIndex >= len(m.passwordResponses) {
		return "", nil
	}
	response := m.passwordResponses[m.passwordIndex]
	m.passwordIndex++
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedSetupContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config", "config.yaml")
		testCtx.originalContent = ""
		testCtx.output.Reset()
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		SharedSetupContext = &setupContext{}
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, testCtx.noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, testCtx.aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with inputs:$`, testCtx.iRunTheSetupCommandWithInputs)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, testCtx.iRunTheSetupCommandWithConfirmation)
	ctx.Step(`^a config file should exist$`, testCtx.aConfigFileShouldExist)
	ctx.Step(`^the config file should only be readable by its owner$`, testCtx.theConfigFileShouldOnlyBeReadableByItsOwner)
	ctx.Step(`^the config should have "([^"]*)" set to "([^"]*)"$`, testCtx.theConfigShouldHave)
	ctx.Step(`^the setup output should contain "([^"]*)"$`, testCtx.theSetupOutputShouldContain)
	ctx.Step(`^the setup should fail with "([^"]*)"$`, testCtx.theSetupShouldFailWith)
	ctx.Step(`^the existing config should be unchanged$`, testCtx.theExistingConfigShouldBeUnchanged)
}

func (s *setupContext) noConfigFileExistsForSetup() error {
	return os.MkdirAll(filepath.Dir(s.configPath), 0755)
}

func (s *setupContext) aConfigFileAlreadyExistsForSetup() error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}

	content := `salesforce:
  instance: "original.my.salesforce.com"
  api_version: "58.0"
  consumer_key: "original-key"
  username: "original@acme.com"
`
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0600)
}

// parseInputTable splits the rows into plain inputs and masked inputs.
// Rows whose prompt mentions a secret, password or token are answered by Password.
func parseInputTable(table *godog.Table) ([]string, []string) {
	var inputs, passwords []string

	for i, row := range table.Rows {
		if i == 0 {
			continue // header
		}
		prompt := strings.ToLower(row.Cells[0].Value)
		value := row.Cells[1].Value

		if strings.Contains(prompt, "secret") || strings.Contains(prompt, "password") || strings.Contains(prompt, "security token") {
			passwords = append(passwords, value)
		} else {
			inputs = append(inputs, value)
		}
	}

	return inputs, passwords
}

func (s *setupContext) iRunTheSetupCommandWithInputs(table *godog.Table) error {
	inputs, passwords := parseInputTable(table)
	prompter := NewMockPrompter(inputs, passwords, nil)

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, &s.output)
	return nil
}

func (s *setupContext) iRunTheSetupCommandWithConfirmation(confirmation string) error {
	confirm := strings.ToLower(confirmation) == "y"
	prompter := NewMockPrompter(nil, nil, []bool{confirm})

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, &s.output)
	return nil
}

func (s *setupContext) aConfigFileShouldExist() error {
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) theConfigFileShouldOnlyBeReadableByItsOwner() error {
	info, err := os.Stat(s.configPath)
	if err != nil {
		return err
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		return fmt.Errorf("expected owner-only permissions, got %o", perm)
	}
	return nil
}

func (s *setupContext) theConfigShouldHave(key, expected string) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	var actual string
	switch key {
	case "instance":
		actual = cfg.Salesforce.Instance
	case "api_version":
		actual = cfg.Salesforce.APIVersion
	case "consumer_key":
		actual = cfg.Salesforce.ConsumerKey
	case "consumer_secret":
		actual = cfg.Salesforce.ConsumerSecret
	case "username":
		actual = cfg.Salesforce.Username
	case "password":
		actual = cfg.Salesforce.Password
	case "security_token":
		actual = cfg.Salesforce.SecurityToken
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if actual != expected {
		return fmt.Errorf("expected %s %q, got %q", key, expected, actual)
	}
	return nil
}

func (s *setupContext) theSetupOutputShouldContain(expected string) error {
	if !strings.Contains(s.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, s.output.String())
	}
	return nil
}

func (s *setupContext) theSetupShouldFailWith(expected string) error {
	if s.err == nil {
		return fmt.Errorf("expected setup to fail with %q", expected)
	}
	if !strings.Contains(s.err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got: %v", expected, s.err)
	}
	return nil
}

func (s *setupContext) theExistingConfigShouldBeUnchanged() error {
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config content was changed")
	}
	return nil
}
