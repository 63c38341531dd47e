package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/summarize/internal/config"
	"github.com/temirov/summarize/internal/filter"
	"github.com/temirov/summarize/internal/tokenizer"
	"github.com/temirov/summarize/internal/types"
	"github.com/temirov/summarize/internal/utils"
)

const errorConfigurationFormat = "%w: %w"

// runOptions holds the effective settings after configuration files and flags are merged.
type runOptions struct {
	configPath      string
	extensions      []string
	ignorePatterns  []string
	includeHidden   bool
	ignoreFilesOnly bool
	ignoreGitignore bool
	includeVCS      bool
	outputFile      string
	format          string
	cxml            bool
	markdown        bool
	lineNumbers     bool
	nullSeparated   bool
	countTokens     bool
	model           string
	apiKey          string
	apiKeyEnv       string
	verbose         bool
	showCost        bool
	jsonReport      bool
	noSummarize     bool
	prompt          string
	summaryOutput   string
	listModels      bool
	threads         int
	tokenizerFile   string
	copyToClipboard bool
	pricing         map[string]tokenizer.Pricing
}

// resolve loads configuration files and fills every option whose flag was
// not set explicitly. Flags always win over configuration.
func (options *runOptions) resolve(command *cobra.Command, dependencies Dependencies) error {
	configuration, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: dependencies.WorkingDirectory,
		HomeDirectory:    dependencies.HomeDirectory,
		ExplicitFilePath: options.configPath,
	})
	if err != nil {
		return fmt.Errorf(errorConfigurationFormat, types.ErrConfig, err)
	}
	options.applyConfiguration(command, configuration)

	if options.cxml {
		options.format = types.FormatXML
	}
	if options.markdown {
		options.format = types.FormatMarkdown
	}
	options.format = strings.ToLower(strings.TrimSpace(options.format))

	if options.showCost && !options.countTokens {
		return types.ConfigErrorf(errorShowCostRequiresCount)
	}
	if options.jsonReport && !options.countTokens {
		return types.ConfigErrorf(errorJSONRequiresCount)
	}
	if options.threads < 0 {
		return types.ConfigErrorf(errorNegativeThreadsFormat, options.threads)
	}
	return nil
}

func (options *runOptions) applyConfiguration(command *cobra.Command, configuration config.ApplicationConfiguration) {
	flagChanged := func(name string) bool {
		return command.Flags().Changed(name)
	}
	applyBool := func(name string, target *bool, value *bool) {
		if !flagChanged(name) && value != nil {
			*target = *value
		}
	}
	applyString := func(name string, target *string, value string) {
		if !flagChanged(name) && value != "" {
			*target = value
		}
	}

	if !flagChanged(extensionFlagName) && len(configuration.Paths.Extensions) > 0 {
		options.extensions = append([]string{}, configuration.Paths.Extensions...)
	}
	options.ignorePatterns = utils.DeduplicatePatterns(append(append([]string{}, configuration.Paths.Ignore...), options.ignorePatterns...))
	applyBool(includeHiddenFlagName, &options.includeHidden, configuration.Paths.IncludeHidden)
	applyBool(ignoreGitignoreFlagName, &options.ignoreGitignore, configuration.Paths.IgnoreGitignore)
	applyBool(includeVCSFlagName, &options.includeVCS, configuration.Paths.IncludeVCS)
	applyBool(ignoreFilesOnlyFlagName, &options.ignoreFilesOnly, configuration.Paths.IgnoreFilesOnly)

	applyString(modelFlagName, &options.model, configuration.Tokens.Model)
	applyString(tokenizerFileFlagName, &options.tokenizerFile, configuration.Tokens.TokenizerFile)
	if !flagChanged(threadsFlagName) && configuration.Tokens.Threads != nil {
		options.threads = *configuration.Tokens.Threads
	}
	options.pricing = configuration.Tokens.Pricing

	if !flagChanged(formatFlagName) && !flagChanged(cxmlFlagName) && !flagChanged(markdownFlagName) {
		applyString(formatFlagName, &options.format, configuration.Output.Format)
	}
	applyBool(lineNumbersFlagName, &options.lineNumbers, configuration.Output.LineNumbers)
	applyBool(copyFlagName, &options.copyToClipboard, configuration.Output.Clipboard)

	applyString(promptFlagName, &options.prompt, configuration.Summary.Prompt)
	applyString(summaryOutputFlagName, &options.summaryOutput, configuration.Summary.OutputFile)
}

func (options *runOptions) filterOptions() filter.Options {
	return filter.Options{
		Extensions:      options.extensions,
		IgnorePatterns:  options.ignorePatterns,
		IncludeHidden:   options.includeHidden,
		IgnoreGitignore: options.ignoreGitignore,
		IncludeVCS:      options.includeVCS,
		IgnoreFilesOnly: options.ignoreFilesOnly,
	}
}
