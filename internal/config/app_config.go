// Package config loads summarize defaults from global and local YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/temirov/summarize/internal/tokenizer"
	"github.com/temirov/summarize/internal/utils"
)

// keyDelimiter replaces viper's default "." so model identifiers such as
// gpt-3.5-turbo survive as pricing map keys.
const keyDelimiter = "::"

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	HomeDirectory    string
	ExplicitFilePath string
}

// ApplicationConfiguration holds every configurable default. Nil pointers and
// empty values mean "not set" so that later sources and flags can override.
type ApplicationConfiguration struct {
	Paths   PathConfiguration    `mapstructure:"paths"`
	Tokens  TokenConfiguration   `mapstructure:"tokens"`
	Output  OutputConfiguration  `mapstructure:"output"`
	Summary SummaryConfiguration `mapstructure:"summary"`
}

// PathConfiguration mirrors the file selection flags.
type PathConfiguration struct {
	Extensions      []string `mapstructure:"extensions"`
	Ignore          []string `mapstructure:"ignore"`
	IncludeHidden   *bool    `mapstructure:"include_hidden"`
	IgnoreGitignore *bool    `mapstructure:"ignore_gitignore"`
	IncludeVCS      *bool    `mapstructure:"include_vcs"`
	IgnoreFilesOnly *bool    `mapstructure:"ignore_files_only"`
}

// TokenConfiguration controls model selection and counting.
type TokenConfiguration struct {
	Model         string                       `mapstructure:"model"`
	Threads       *int                         `mapstructure:"threads"`
	TokenizerFile string                       `mapstructure:"tokenizer_file"`
	Pricing       map[string]tokenizer.Pricing `mapstructure:"pricing"`
}

// OutputConfiguration controls concatenation rendering.
type OutputConfiguration struct {
	Format      string `mapstructure:"format"`
	LineNumbers *bool  `mapstructure:"line_numbers"`
	Clipboard   *bool  `mapstructure:"clipboard"`
}

// SummaryConfiguration controls the generated overview.
type SummaryConfiguration struct {
	Prompt     string `mapstructure:"prompt"`
	OutputFile string `mapstructure:"output"`
}

// LoadApplicationConfiguration loads the global file and then the local or
// explicit file, with local values taking precedence.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}
	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}

	var merged ApplicationConfiguration

	if homeDirectory != "" {
		globalConfig, loadErr := loadConfigurationFromPath(GlobalConfigPath(homeDirectory), false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Paths.Ignore = utils.DeduplicatePatterns(merged.Paths.Ignore)
	return merged, nil
}

// GlobalConfigPath returns the global configuration file under homeDirectory.
func GlobalConfigPath(homeDirectory string) string {
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

// loadConfigurationFromPath reads one YAML file. A missing file yields an
// empty configuration unless required is set.
func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	config.Tokens.Pricing = normalizePricingKeys(config.Tokens.Pricing)
	return config, nil
}

func normalizePricingKeys(pricing map[string]tokenizer.Pricing) map[string]tokenizer.Pricing {
	if len(pricing) == 0 {
		return nil
	}
	normalized := make(map[string]tokenizer.Pricing, len(pricing))
	for identifier, price := range pricing {
		normalized[strings.ToLower(strings.TrimSpace(identifier))] = price
	}
	return normalized
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Paths = result.Paths.merge(override.Paths)
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Output = result.Output.merge(override.Output)
	result.Summary = result.Summary.merge(override.Summary)
	return result
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := config
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string{}, override.Extensions...)
	}
	if len(override.Ignore) > 0 {
		result.Ignore = append([]string{}, utils.DeduplicatePatterns(override.Ignore)...)
	}
	if override.IncludeHidden != nil {
		result.IncludeHidden = cloneBool(override.IncludeHidden)
	}
	if override.IgnoreGitignore != nil {
		result.IgnoreGitignore = cloneBool(override.IgnoreGitignore)
	}
	if override.IncludeVCS != nil {
		result.IncludeVCS = cloneBool(override.IncludeVCS)
	}
	if override.IgnoreFilesOnly != nil {
		result.IgnoreFilesOnly = cloneBool(override.IgnoreFilesOnly)
	}
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.Threads != nil {
		result.Threads = cloneInt(override.Threads)
	}
	if override.TokenizerFile != "" {
		result.TokenizerFile = override.TokenizerFile
	}
	if len(override.Pricing) > 0 {
		mergedPricing := make(map[string]tokenizer.Pricing, len(result.Pricing)+len(override.Pricing))
		for identifier, price := range result.Pricing {
			mergedPricing[identifier] = price
		}
		for identifier, price := range override.Pricing {
			mergedPricing[identifier] = price
		}
		result.Pricing = mergedPricing
	}
	return result
}

func (config OutputConfiguration) merge(override OutputConfiguration) OutputConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.LineNumbers != nil {
		result.LineNumbers = cloneBool(override.LineNumbers)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (config SummaryConfiguration) merge(override SummaryConfiguration) SummaryConfiguration {
	result := config
	if override.Prompt != "" {
		result.Prompt = override.Prompt
	}
	if override.OutputFile != "" {
		result.OutputFile = override.OutputFile
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
