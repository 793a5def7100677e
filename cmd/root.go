package cmd

import (
	"fmt"
	"io"
	"os"

	"sf-content-upload/infrastructure/config"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "config/config.yaml"

var (
	cfgFile   string
	debugMode bool
	cfg       *config.Config
	cfgErr    error
	logger    = log.NewLogger()
)

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	io.Writer
}

var rootCmd = &cobra.Command{
	Use:   "sf-content-upload",
	Short: "Upload files to Salesforce as ContentVersion records",
	Long: `sf-content-upload authenticates with the OAuth 2.0 password grant and
creates a ContentVersion record in a single request:

  - Small files are sent inline as a JSON body
  - Large files are streamed as a multipart body

Credentials are read from config/config.yaml (see 'setup') and can be
overridden with SF_* environment variables.

Example:
  sf-content-upload upload large --path 200MB-TESTFILE.pdf --name "200MB TESTFILE"`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "print redacted request and response dumps")
}

func initConfig() {
	logger.EnableDebugLog(debugMode)

	explicit := cfgFile != ""
	if !explicit {
		cfgFile = defaultConfigFile
	}

	cfg, cfgErr = config.Load(cfgFile)
	if cfgErr == nil {
		return
	}

	// An explicit --config must exist; the default file is optional when SF_* variables are set
	if explicit {
		cfg = nil
		return
	}
	cfg, cfgErr = config.LoadFromEnv()
	if cfgErr != nil {
		cfg = nil
	}
}

// requireConfig returns the loaded configuration or an error explaining how to create one
func requireConfig() (*config.Config, error) {
	if cfg == nil {
		if cfgErr != nil {
			return nil, fmt.Errorf("configuration not loaded: %w", cfgErr)
		}
		return nil, fmt.Errorf("configuration not loaded; run 'sf-content-upload setup' first")
	}
	return cfg, nil
}

// warnMissing prints hints for unset credentials without blocking the request
func warnMissing(c *config.Config) {
	for _, key := range c.Missing() {
		logger.Warnf("%s is not set; the token endpoint will likely reject the request. Set it with: %s", key, config.SuggestSetCommand(key))
	}
}
