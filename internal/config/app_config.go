// Package config resolves the explicit parameters of a dirtree run from configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/tyemirov/dirtree/internal/tokenizer"
	"github.com/tyemirov/dirtree/internal/utils"
)

const (
	// DefaultRoot is the directory rendered when none is configured.
	DefaultRoot = "."
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration mirrors the configuration file layout. Empty fields do not override lower layers.
type ApplicationConfiguration struct {
	Root      string             `mapstructure:"root"`
	Output    string             `mapstructure:"output"`
	Exclude   []string           `mapstructure:"exclude"`
	Clipboard *bool              `mapstructure:"clipboard"`
	Tokens    TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// RunSettings are the fully resolved parameters of a single run.
type RunSettings struct {
	Root            string
	Output          string
	ExtraExclusions []string
	CopyToClipboard bool
	CountTokens     bool
	TokenizerModel  string
}

// LoadApplicationConfiguration loads configuration from the global file and then the local or explicit file.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)
	merged.Exclude = utils.NormalizeNames(merged.Exclude)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.LocalConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
// Extra exclusions accumulate across layers; scalar values are replaced.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Root != "" {
		result.Root = override.Root
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if len(override.Exclude) > 0 {
		result.Exclude = utils.NormalizeNames(append(append([]string{}, config.Exclude...), override.Exclude...))
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

// Settings fills every unset value with its built-in default.
func (config ApplicationConfiguration) Settings() RunSettings {
	settings := RunSettings{
		Root:            DefaultRoot,
		Output:          utils.DefaultOutputFileName,
		ExtraExclusions: utils.NormalizeNames(config.Exclude),
		TokenizerModel:  tokenizer.DefaultModel,
	}
	if config.Root != "" {
		settings.Root = config.Root
	}
	if config.Output != "" {
		settings.Output = config.Output
	}
	if config.Clipboard != nil {
		settings.CopyToClipboard = *config.Clipboard
	}
	if config.Tokens.Enabled != nil {
		settings.CountTokens = *config.Tokens.Enabled
	}
	if config.Tokens.Model != "" {
		settings.TokenizerModel = config.Tokens.Model
	}
	return settings
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
