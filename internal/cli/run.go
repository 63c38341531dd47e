package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/summarize/internal/accountant"
	"github.com/temirov/summarize/internal/commands"
	"github.com/temirov/summarize/internal/filter"
	"github.com/temirov/summarize/internal/output"
	"github.com/temirov/summarize/internal/summary"
	"github.com/temirov/summarize/internal/tokenizer"
	"github.com/temirov/summarize/internal/types"
	"github.com/temirov/summarize/internal/utils"
	"github.com/temirov/summarize/internal/walker"
)

const (
	errorReadStdinFormat     = "read paths from stdin: %w"
	errorCreateOutputFormat  = "create output file %s: %w"
	errorWriteSummaryFormat  = "write summary to %s: %w"
	errorCopyClipboardFormat = "copy to clipboard: %w"
	errorLoggerFormat        = "initialize logger: %w"
	outputFilePermissions    = 0o644
	logMessageContentWritten = "concatenated content written"
	logMessageReportWritten  = "token report written"
	logMessageSummarizing    = "summarizing codebase"
	logMessageSummaryWritten = "summary written"
	logMessageCopied         = "copied to clipboard"
	logMessageNoGeminiKey    = "no Gemini API key found; skipping provider model listing"
	logMessageTokenEstimate  = "could not estimate input tokens"
	logMessageCountingTokens = "counting tokens"
	logFieldFile             = "file"
	logFieldModel            = "model"
	logFieldInputSize        = "input_size"
	logFieldEstimatedTokens  = "estimated_tokens"
	logFieldFiles            = "files"
	logFieldTokenizer        = "tokenizer"
	logFieldWorkers          = "workers"
	logFieldErrorText        = "error"
)

// application executes one invocation with resolved options.
type application struct {
	dependencies Dependencies
	options      *runOptions
	stdout       io.Writer
	logger       *zap.Logger
	warnings     types.WarningSink
}

func newApplication(command *cobra.Command, dependencies Dependencies, options *runOptions) *application {
	return &application{
		dependencies: dependencies,
		options:      options,
		stdout:       command.OutOrStdout(),
	}
}

func (app *application) run(ctx context.Context, arguments []string) error {
	loggerFactory := app.dependencies.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = utils.NewApplicationLogger
	}
	logger, err := loggerFactory(app.options.verbose)
	if err != nil {
		return fmt.Errorf(errorLoggerFormat, err)
	}
	defer func() { _ = logger.Sync() }()
	app.logger = logger
	app.warnings = loggingWarningSink{logger: logger}

	if err := summary.LoadEnvironmentFiles(app.workingDirectory(), app.homeDirectory()); err != nil {
		return err
	}

	registry, err := tokenizer.NewRegistry(tokenizer.Config{
		LocalTokenizerFile: app.options.tokenizerFile,
		Pricing:            app.options.pricing,
	})
	if err != nil {
		return err
	}

	if app.options.listModels {
		return app.listModels(ctx, registry.Catalogue())
	}

	paths, err := app.collectPaths(arguments)
	if err != nil {
		return err
	}
	roots, err := walker.ResolveRoots(paths)
	if err != nil {
		return err
	}
	filterConfig, err := filter.NewConfig(app.options.filterOptions())
	if err != nil {
		return err
	}
	fileWalker := walker.New(filterConfig, nil, app.warnings)

	model, modelTokenizer, err := registry.Resolve(app.options.model)
	if err != nil {
		return err
	}

	if app.options.countTokens {
		return app.countTokens(ctx, fileWalker, roots, model, modelTokenizer)
	}
	return app.concatenate(ctx, fileWalker, roots, model, modelTokenizer)
}

// collectPaths appends paths piped on stdin to the arguments and defaults to ".".
func (app *application) collectPaths(arguments []string) ([]string, error) {
	paths := append([]string{}, arguments...)
	stdinIsTerminal := app.dependencies.StdinIsTerminal
	if app.dependencies.Stdin != nil && stdinIsTerminal != nil && !stdinIsTerminal() {
		piped, err := io.ReadAll(app.dependencies.Stdin)
		if err != nil {
			return nil, fmt.Errorf(errorReadStdinFormat, err)
		}
		paths = append(paths, utils.SplitPathList(string(piped), app.options.nullSeparated)...)
	}
	if len(paths) == 0 {
		paths = []string{defaultPath}
	}
	return paths, nil
}

func (app *application) workingDirectory() string {
	if app.dependencies.WorkingDirectory != "" {
		return app.dependencies.WorkingDirectory
	}
	workingDirectory, err := os.Getwd()
	if err != nil {
		return ""
	}
	return workingDirectory
}

func (app *application) homeDirectory() string {
	if app.dependencies.HomeDirectory != "" {
		return app.dependencies.HomeDirectory
	}
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return homeDirectory
}

func (app *application) countTokens(ctx context.Context, fileWalker *walker.Walker, roots []types.ValidatedPath, model tokenizer.Model, modelTokenizer tokenizer.Tokenizer) error {
	accountantOptions := accountant.Options{
		Workers:   app.options.threads,
		Tokenizer: modelTokenizer,
		Warnings:  app.warnings,
	}
	if app.options.showCost {
		pricing := model.Pricing
		accountantOptions.Pricing = &pricing
	}
	tokenAccountant, err := accountant.New(accountantOptions)
	if err != nil {
		return err
	}
	tokenSummary, err := commands.CountTokens(ctx, fileWalker, roots, tokenAccountant, func(fileCount int) {
		app.logger.Info(logMessageCountingTokens,
			zap.Int(logFieldFiles, fileCount),
			zap.Int(logFieldWorkers, tokenAccountant.Workers()),
		)
	})
	if err != nil {
		return err
	}
	app.logger.Debug(logMessageReportWritten,
		zap.Int(logFieldFiles, len(tokenSummary.Files)),
		zap.String(logFieldTokenizer, tokenSummary.TokenizerName),
		zap.Int(logFieldWorkers, tokenSummary.Workers),
	)

	var report bytes.Buffer
	if app.options.jsonReport {
		err = output.WriteTokenReportJSON(&report, tokenSummary)
	} else {
		err = output.WriteTokenReport(&report, tokenSummary, output.ReportOptions{Verbose: app.options.verbose, ModelName: model.DisplayName})
	}
	if err != nil {
		return err
	}
	if err := app.writeResult(report.Bytes()); err != nil {
		return err
	}
	return app.copyIfRequested(report.String())
}

func (app *application) concatenate(ctx context.Context, fileWalker *walker.Walker, roots []types.ValidatedPath, model tokenizer.Model, modelTokenizer tokenizer.Tokenizer) error {
	var content bytes.Buffer
	renderer, err := output.NewStreamRenderer(app.options.format, &content, app.options.lineNumbers)
	if err != nil {
		return err
	}
	streamError := commands.StreamContent(ctx, fileWalker, roots, app.warnings, func(document types.Document) error {
		return renderer.Handle(document)
	})
	if streamError != nil {
		return streamError
	}
	if err := renderer.Flush(); err != nil {
		return err
	}

	if app.options.outputFile != "" || app.options.noSummarize {
		if err := app.writeResult(content.Bytes()); err != nil {
			return err
		}
	}
	if app.options.noSummarize {
		return app.copyIfRequested(content.String())
	}
	return app.summarize(ctx, content.String(), model, modelTokenizer)
}

func (app *application) summarize(ctx context.Context, content string, model tokenizer.Model, modelTokenizer tokenizer.Tokenizer) error {
	apiKey, err := summary.ResolveAPIKey(model, summary.KeySource{
		Explicit:            app.options.apiKey,
		EnvironmentVariable: app.options.apiKeyEnv,
	})
	if err != nil {
		return err
	}

	logFields := []zap.Field{
		zap.String(logFieldModel, model.DisplayName),
		zap.String(logFieldInputSize, utils.FormatFileSize(int64(len(content)))),
	}
	if estimatedTokens, countError := modelTokenizer.Count([]byte(content)); countError == nil {
		logFields = append(logFields, zap.String(logFieldEstimatedTokens, utils.FormatCount(estimatedTokens)))
	} else {
		app.logger.Debug(logMessageTokenEstimate, zap.String(logFieldErrorText, countError.Error()))
	}
	app.logger.Info(logMessageSummarizing, logFields...)

	generator, err := app.dependencies.NewGenerator(ctx, model, apiKey)
	if err != nil {
		return err
	}
	summaryText, err := generator.Generate(ctx, app.options.prompt, content)
	if err != nil {
		return err
	}
	summaryPath := app.options.summaryOutput
	if err := os.WriteFile(summaryPath, []byte(summaryText), outputFilePermissions); err != nil {
		return fmt.Errorf(errorWriteSummaryFormat, summaryPath, err)
	}
	app.logger.Info(logMessageSummaryWritten, zap.String(logFieldFile, summaryPath))
	return app.copyIfRequested(summaryText)
}

func (app *application) listModels(ctx context.Context, catalogue *tokenizer.Catalogue) error {
	if err := output.WriteModelCatalogue(app.stdout, catalogue.Models()); err != nil {
		return err
	}
	apiKey, err := summary.ResolveAPIKey(tokenizer.Model{Identifier: tokenizer.DefaultModel, Family: tokenizer.FamilyGemini}, summary.KeySource{
		Explicit:            app.options.apiKey,
		EnvironmentVariable: app.options.apiKeyEnv,
	})
	if err != nil {
		app.logger.Info(logMessageNoGeminiKey)
		return nil
	}
	models, err := app.dependencies.ListGeminiModels(ctx, apiKey)
	if err != nil {
		return err
	}
	return output.WriteGeminiModels(app.stdout, models)
}

// writeResult sends data to --output when set and to stdout otherwise.
func (app *application) writeResult(data []byte) error {
	if app.options.outputFile == "" {
		_, err := app.stdout.Write(data)
		return err
	}
	outputPath := app.options.outputFile
	if err := os.WriteFile(outputPath, data, outputFilePermissions); err != nil {
		return fmt.Errorf(errorCreateOutputFormat, outputPath, err)
	}
	message := logMessageContentWritten
	if app.options.countTokens {
		message = logMessageReportWritten
	}
	app.logger.Info(message, zap.String(logFieldFile, outputPath))
	return nil
}

func (app *application) copyIfRequested(text string) error {
	if !app.options.copyToClipboard || app.dependencies.Clipboard == nil {
		return nil
	}
	if err := app.dependencies.Clipboard.Copy(text); err != nil {
		return fmt.Errorf(errorCopyClipboardFormat, err)
	}
	app.logger.Info(logMessageCopied)
	return nil
}
