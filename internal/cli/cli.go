// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/summarize/internal/config"
	"github.com/temirov/summarize/internal/services/clipboard"
	"github.com/temirov/summarize/internal/summary"
	"github.com/temirov/summarize/internal/tokenizer"
	"github.com/temirov/summarize/internal/types"
	"github.com/temirov/summarize/internal/utils"
)

const (
	rootUse              = "summarize [paths...]"
	rootShortDescription = "concatenate, count and summarize source files"
	rootLongDescription  = `summarize selects files under the given paths, honoring .gitignore files,
hidden-file and extension rules, and ignore globs.

By default the selected files are concatenated and sent to the configured model
for an overview written to --summary-output. Use --no-summarize to only print
the concatenation, --count-tokens to report token counts and costs, and
--list-models to show the supported models. Paths can also be piped on stdin.`
	rootUsageExample = `  # Concatenate Go and Markdown files as Claude XML
  summarize -e go -e md --cxml --no-summarize ./cmd ./internal

  # Count tokens with the GPT-4 tokenizer and show the estimated cost
  summarize -t --model gpt-4 --show-cost --verbose .

  # Summarize the files found by another tool
  git ls-files -z | summarize -0 --model claude-3-opus`

	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initWrittenFormat    = "Configuration written to %s\n"

	versionTemplate = "summarize version: %s\n"
	defaultPath     = "."
)

const (
	configFlagName          = "config"
	extensionFlagName       = "extension"
	extensionFlagShorthand  = "e"
	includeHiddenFlagName   = "include-hidden"
	ignoreFilesOnlyFlagName = "ignore-files-only"
	ignoreGitignoreFlagName = "ignore-gitignore"
	includeVCSFlagName      = "include-vcs"
	ignoreFlagName          = "ignore"
	outputFlagName          = "output"
	outputFlagShorthand     = "o"
	formatFlagName          = "format"
	formatFlagShorthand     = "f"
	cxmlFlagName            = "cxml"
	cxmlFlagShorthand       = "c"
	markdownFlagName        = "markdown"
	markdownFlagShorthand   = "m"
	lineNumbersFlagName     = "line-numbers"
	lineNumbersShorthand    = "n"
	nullFlagName            = "null"
	nullFlagShorthand       = "0"
	countTokensFlagName     = "count-tokens"
	countTokensShorthand    = "t"
	modelFlagName           = "model"
	apiKeyFlagName          = "api-key"
	apiKeyEnvFlagName       = "api-key-env"
	verboseFlagName         = "verbose"
	showCostFlagName        = "show-cost"
	jsonFlagName            = "json"
	noSummarizeFlagName     = "no-summarize"
	promptFlagName          = "prompt"
	summaryOutputFlagName   = "summary-output"
	listModelsFlagName      = "list-models"
	threadsFlagName         = "threads"
	tokenizerFileFlagName   = "tokenizer-file"
	copyFlagName            = "copy"
	versionFlagName         = "version"
	globalFlagName          = "global"
	forceFlagName           = "force"

	configFlagDescription          = "configuration file used instead of ./" + utils.ConfigFileName
	extensionFlagDescription       = "only include files with this extension (repeatable)"
	includeHiddenFlagDescription   = "include hidden files and directories"
	ignoreFilesOnlyFlagDescription = "apply ignore globs to files only, never prune directories"
	ignoreGitignoreFlagDescription = "do not read .gitignore files"
	includeVCSFlagDescription      = "include version control directories such as .git"
	ignoreFlagDescription          = "ignore paths matching this glob (repeatable)"
	outputFlagDescription          = "write the concatenated content or token report to this file"
	formatFlagDescription          = "concatenation format: default, markdown or cxml"
	cxmlFlagDescription            = "shorthand for --format cxml"
	markdownFlagDescription        = "shorthand for --format markdown"
	lineNumbersFlagDescription     = "prefix every content line with its number"
	nullFlagDescription            = "paths on stdin are separated by NUL instead of whitespace"
	countTokensFlagDescription     = "count tokens instead of concatenating"
	modelFlagDescription           = "model whose tokenizer and provider are used"
	apiKeyFlagDescription          = "API key for the model provider"
	apiKeyEnvFlagDescription       = "environment variable holding the API key"
	verboseFlagDescription         = "per-file token table and debug logging"
	showCostFlagDescription        = "estimate the cost of the counted tokens"
	jsonFlagDescription            = "emit the token report as JSON"
	noSummarizeFlagDescription     = "only concatenate files, do not call a model"
	promptFlagDescription          = "instruction sent with the concatenated files"
	summaryOutputFlagDescription   = "file that receives the generated summary"
	listModelsFlagDescription      = "list supported models and exit"
	threadsFlagDescription         = "token counting workers (0 uses every CPU)"
	tokenizerFileFlagDescription   = "tokenizer.json used by the local model"
	copyFlagDescription            = "also copy the result to the clipboard"
	versionFlagDescription         = "display application version"
	globalFlagDescription          = "write the configuration under the home directory"
	forceFlagDescription           = "overwrite an existing configuration file"

	errorShowCostRequiresCount = "--show-cost requires --count-tokens"
	errorJSONRequiresCount     = "--json requires --count-tokens"
	errorNegativeThreadsFormat = "--threads must not be negative, got %d"
)

// Dependencies are the process resources the CLI touches. Tests replace them.
type Dependencies struct {
	Stdin            io.Reader
	Stdout           io.Writer
	StdinIsTerminal  func() bool
	Clipboard        clipboard.Copier
	NewGenerator     func(ctx context.Context, model tokenizer.Model, apiKey string) (summary.Generator, error)
	ListGeminiModels func(ctx context.Context, apiKey string) ([]summary.GeminiModel, error)
	WorkingDirectory string
	HomeDirectory    string
	LoggerFactory    func(verbose bool) (*zap.Logger, error)
}

// DefaultDependencies wires the real terminal, clipboard and providers.
func DefaultDependencies() Dependencies {
	return Dependencies{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		StdinIsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		Clipboard: clipboard.NewService(),
		NewGenerator: func(ctx context.Context, model tokenizer.Model, apiKey string) (summary.Generator, error) {
			return summary.NewGenerator(ctx, model, apiKey, summary.Options{})
		},
		ListGeminiModels: func(ctx context.Context, apiKey string) ([]summary.GeminiModel, error) {
			return summary.ListGeminiModels(ctx, apiKey, summary.Options{})
		},
		LoggerFactory: utils.NewApplicationLogger,
	}
}

// Execute runs the summarize application.
func Execute(ctx context.Context) error {
	rootCommand := NewRootCommand(DefaultDependencies())
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	options := &runOptions{}
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			if err := options.resolve(command, dependencies); err != nil {
				return err
			}
			return newApplication(command, dependencies, options).run(command.Context(), arguments)
		},
	}
	if dependencies.Stdout != nil {
		rootCommand.SetOut(dependencies.Stdout)
	}

	flagSet := rootCommand.Flags()
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	flagSet.StringSliceVarP(&options.extensions, extensionFlagName, extensionFlagShorthand, nil, extensionFlagDescription)
	registerBooleanFlag(flagSet, &options.includeHidden, includeHiddenFlagName, "", false, includeHiddenFlagDescription)
	registerBooleanFlag(flagSet, &options.ignoreFilesOnly, ignoreFilesOnlyFlagName, "", false, ignoreFilesOnlyFlagDescription)
	registerBooleanFlag(flagSet, &options.ignoreGitignore, ignoreGitignoreFlagName, "", false, ignoreGitignoreFlagDescription)
	registerBooleanFlag(flagSet, &options.includeVCS, includeVCSFlagName, "", false, includeVCSFlagDescription)
	flagSet.StringArrayVar(&options.ignorePatterns, ignoreFlagName, nil, ignoreFlagDescription)
	flagSet.StringVarP(&options.outputFile, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	flagSet.StringVarP(&options.format, formatFlagName, formatFlagShorthand, types.FormatDefault, formatFlagDescription)
	registerBooleanFlag(flagSet, &options.cxml, cxmlFlagName, cxmlFlagShorthand, false, cxmlFlagDescription)
	registerBooleanFlag(flagSet, &options.markdown, markdownFlagName, markdownFlagShorthand, false, markdownFlagDescription)
	registerBooleanFlag(flagSet, &options.lineNumbers, lineNumbersFlagName, lineNumbersShorthand, false, lineNumbersFlagDescription)
	registerBooleanFlag(flagSet, &options.nullSeparated, nullFlagName, nullFlagShorthand, false, nullFlagDescription)
	registerBooleanFlag(flagSet, &options.countTokens, countTokensFlagName, countTokensShorthand, false, countTokensFlagDescription)
	flagSet.StringVar(&options.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	flagSet.StringVar(&options.apiKey, apiKeyFlagName, "", apiKeyFlagDescription)
	flagSet.StringVar(&options.apiKeyEnv, apiKeyEnvFlagName, "", apiKeyEnvFlagDescription)
	registerBooleanFlag(flagSet, &options.verbose, verboseFlagName, "", false, verboseFlagDescription)
	registerBooleanFlag(flagSet, &options.showCost, showCostFlagName, "", false, showCostFlagDescription)
	registerBooleanFlag(flagSet, &options.jsonReport, jsonFlagName, "", false, jsonFlagDescription)
	registerBooleanFlag(flagSet, &options.noSummarize, noSummarizeFlagName, "", false, noSummarizeFlagDescription)
	flagSet.StringVar(&options.prompt, promptFlagName, summary.DefaultPrompt, promptFlagDescription)
	flagSet.StringVar(&options.summaryOutput, summaryOutputFlagName, summary.DefaultOutputFile, summaryOutputFlagDescription)
	registerBooleanFlag(flagSet, &options.listModels, listModelsFlagName, "", false, listModelsFlagDescription)
	flagSet.IntVar(&options.threads, threadsFlagName, 0, threadsFlagDescription)
	flagSet.StringVar(&options.tokenizerFile, tokenizerFileFlagName, "", tokenizerFileFlagDescription)
	registerBooleanFlag(flagSet, &options.copyToClipboard, copyFlagName, "", false, copyFlagDescription)
	registerBooleanFlag(flagSet, &showVersion, versionFlagName, "", false, versionFlagDescription)

	rootCommand.MarkFlagsMutuallyExclusive(formatFlagName, cxmlFlagName, markdownFlagName)
	rootCommand.MarkFlagsMutuallyExclusive(apiKeyFlagName, apiKeyEnvFlagName)

	rootCommand.AddCommand(createInitCommand(dependencies))
	return rootCommand
}

func createInitCommand(dependencies Dependencies) *cobra.Command {
	var globalTarget bool
	var force bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if globalTarget {
				target = config.InitTargetGlobal
			}
			path, err := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: dependencies.WorkingDirectory,
				HomeDirectory:    dependencies.HomeDirectory,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), initWrittenFormat, path)
			return err
		},
	}
	registerBooleanFlag(initCommand.Flags(), &globalTarget, globalFlagName, "", false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, "", false, forceFlagDescription)
	return initCommand
}
