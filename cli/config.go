package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/finder/core/search"
	"github.com/goto/finder/core/validator"
	esStore "github.com/goto/finder/internal/store/elasticsearch"
	"github.com/goto/finder/internal/store/postgres"
	"github.com/goto/finder/pkg/metrics"
	"github.com/goto/finder/pkg/statsd"
	"github.com/goto/salt/cmdx"
	"github.com/goto/salt/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const (
	configFlag = "config"

	backendElasticsearch = "elasticsearch"
	backendPostgres      = "postgres"
)

func configCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Manage finder configuration",
		Example: heredoc.Doc(`
			$ finder config init
			$ finder config list`),
	}

	cmd.AddCommand(configInitCommand())
	cmd.AddCommand(configListCommand(cfg))

	return cmd
}

func configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Example: heredoc.Doc(`
			$ finder config init
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cmdx.SetConfig("finder")

			if err := cfg.Init(&Config{}); err != nil {
				return err
			}

			fmt.Printf("config created: %v\n", cfg.File())
			return nil
		},
	}
}

func configListCommand(cfg *Config) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "list",
		Short: "List configuration settings",
		Example: heredoc.Doc(`
			$ finder config list
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(*cfg)
		},
	}
	return cmd
}

type Config struct {
	// Log
	LogLevel string `yaml:"log_level" mapstructure:"log_level" default:"info" validate:"omitempty,oneof=debug info warn error"`

	// StatsD
	StatsD statsd.Config `yaml:"statsd" mapstructure:"statsd"`

	// NewRelic
	NewRelic metrics.NewRelicConfig `yaml:"newrelic" mapstructure:"newrelic"`

	// Elasticsearch
	Elasticsearch esStore.Config `yaml:"elasticsearch" mapstructure:"elasticsearch"`

	// Database
	DB postgres.Config `yaml:"db" mapstructure:"db"`

	// Search
	Search SearchConfig `yaml:"search" mapstructure:"search"`
}

type SearchConfig struct {
	// Backend executes composed queries
	Backend string `yaml:"backend" mapstructure:"backend" default:"elasticsearch" validate:"omitempty,oneof=elasticsearch postgres"`
	// Scope used when the search command gets no --scope flag
	Scope string `yaml:"scope" mapstructure:"scope" default:"ALL_FIELDS"`
	// ValidateFields checks requested fields against the object description.
	// Only the postgres backend can describe objects.
	ValidateFields bool `yaml:"validate_fields" mapstructure:"validate_fields" default:"false"`
}

// Validate checks values the loader cannot
func (cfg *Config) Validate() error {
	if err := validator.ValidateStruct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Search.Scope != "" {
		if _, err := search.ParseScope(cfg.Search.Scope); err != nil {
			return fmt.Errorf("invalid config: search.scope: %w", err)
		}
	}
	return nil
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := cmdx.SetConfig("finder").Load(&cfg)
	if err != nil {
		if errors.As(err, &config.ConfigFileNotFoundError{}) {
			return LoadFromCurrentDir()
		}
		return &cfg, err
	}
	return &cfg, nil
}

func LoadFromCurrentDir() (*Config, error) {
	var cfg Config
	var opts []config.LoaderOption

	opts = append(opts,
		config.WithPath("./"),
		config.WithName("finder.yaml"),
		config.WithEnvKeyReplacer(".", "_"),
		config.WithEnvPrefix("FINDER"),
	)

	if err := config.NewLoader(opts...).Load(&cfg); err != nil {
		if errors.As(err, &config.ConfigFileNotFoundError{}) {
			return &cfg, ErrConfigNotFound
		}
		return &cfg, err
	}
	return &cfg, nil
}

func LoadConfigFromFlag(cfgFile string, cfg *Config) error {
	var opts []config.LoaderOption
	opts = append(opts,
		config.WithFile(cfgFile),
		config.WithEnvKeyReplacer(".", "_"),
		config.WithEnvPrefix("FINDER"),
	)

	return config.NewLoader(opts...).Load(cfg)
}

// overrideConfig reloads cfg when the --config flag is set
func overrideConfig(cmd *cobra.Command, cfg *Config) error {
	cfgFile, err := cmd.Flags().GetString(configFlag)
	if err != nil || cfgFile == "" {
		return nil
	}
	if _, err := os.Stat(cfgFile); err != nil {
		return fmt.Errorf("read config %q: %w", cfgFile, err)
	}
	return LoadConfigFromFlag(cfgFile, cfg)
}
