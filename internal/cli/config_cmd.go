package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jontk/fsdash/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	initTemplate string
	initOutput   string
	initForce    bool
	initCurrent  bool
)

// configCmd represents the config command group
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long: `Manage fsdash configuration files and settings.

Configuration files are searched in the following order:
1. ./config.yaml
2. ~/.fsdash/config.yaml
3. /etc/fsdash/config.yaml

FSDASH_* environment variables and command-line flags override file values.`,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// configInitCmd writes a starter configuration file
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file from a template",
	Example: `  fsdash config init
  fsdash config init --template mock
  fsdash config init --current --output ./config.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

// configTemplatesCmd lists the built-in templates
var configTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the built-in configuration templates",
	Args:  cobra.NoArgs,
	RunE:  runConfigTemplates,
}

func init() {
	configInitCmd.Flags().StringVarP(&initTemplate, "template", "t", "local", "template to start from")
	configInitCmd.Flags().StringVarP(&initOutput, "output", "o", "", "file to write (default is $HOME/.fsdash/config.yaml)")
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
	configInitCmd.Flags().BoolVar(&initCurrent, "current", false, "write the effective configuration instead of a template")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configTemplatesCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if cfg.SourceFile != "" {
		_, _ = fmt.Fprintf(w, "# source: %s\n", cfg.SourceFile)
	} else {
		_, _ = fmt.Fprintln(w, "# source: defaults")
	}
	_, err = w.Write(out)
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := initOutput
	if path == "" {
		path = defaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists; use --force to overwrite", path)
	}

	if initCurrent {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.SaveToFile(path); err != nil {
			return fmt.Errorf("failed to write configuration: %w", err)
		}
	} else {
		tm := config.NewTemplateManager()
		if err := tm.SaveTemplateAsConfig(initTemplate, nil, path); err != nil {
			return err
		}
	}

	cmd.Printf("Wrote configuration to %s\n", path)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithPath(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	result := config.ValidateAndFix(cfg, false)
	config.PrintValidationResult(cmd.OutOrStdout(), result)
	return result.Err()
}

func runConfigTemplates(cmd *cobra.Command, args []string) error {
	for _, t := range config.NewTemplateManager().ListTemplates() {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", t.Name, t.Description); err != nil {
			return err
		}
	}
	return nil
}

func defaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".fsdash", "config.yaml")
}
