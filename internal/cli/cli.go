// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/dirtree/internal/commands"
	"github.com/tyemirov/dirtree/internal/config"
	"github.com/tyemirov/dirtree/internal/output"
	"github.com/tyemirov/dirtree/internal/services/clipboard"
	"github.com/tyemirov/dirtree/internal/tokenizer"
	"github.com/tyemirov/dirtree/internal/utils"
)

const (
	outputFlagName    = "output"
	outputFlagShort   = "o"
	exclusionFlagName = "exclude"
	exclusionShort    = "e"
	configFlagName    = "config"
	clipboardFlagName = "clipboard"
	tokensFlagName    = "tokens"
	modelFlagName     = "model"
	versionFlagName   = "version"
	globalFlagName    = "global"
	forceFlagName     = "force"
	versionTemplate   = "dirtree version: %s\n"

	rootUse              = "dirtree [root]"
	rootShortDescription = "write a directory tree to a text file"
	rootLongDescription  = `dirtree walks a directory and writes its structure, drawn with box characters,
to a text file. Version-control, dependency and cache directories are skipped.
Defaults come from ~/.dirtree/config.yaml and ./.dirtree.yaml; flags override both.`
	rootUsageExample = `  # Render the current directory into estructura.txt
  dirtree

  # Render ./src into tree.txt, also skipping dist
  dirtree -o tree.txt -e dist ./src

  # Copy the tree to the clipboard and log its token count
  dirtree --clipboard --tokens`

	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write a commented default configuration to ./.dirtree.yaml,
or to ~/.dirtree/config.yaml with --global.`

	outputFlagDescription    = "file the tree is written to"
	exclusionFlagDescription = "additional name to skip (repeatable)"
	configFlagDescription    = "configuration file used instead of ./.dirtree.yaml"
	clipboardFlagDescription = "copy the tree to the clipboard"
	tokensFlagDescription    = "log the token count of the tree"
	modelFlagDescription     = "tokenizer model used for token counting"
	versionFlagDescription   = "display application version"
	globalFlagDescription    = "write the global configuration instead of the local one"
	forceFlagDescription     = "overwrite an existing configuration file"

	configurationWrittenFormat  = "Configuration written to %s\n"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	clipboardWarningMessage     = "failed to copy tree to clipboard"
	tokenWarningMessage         = "failed to count tokens"
	tokenCountMessage           = "estimated token count"
)

// dependencies groups the collaborators a run needs so tests can substitute them.
type dependencies struct {
	logger           *zap.Logger
	stdout           io.Writer
	copier           clipboard.Copier
	newCounter       func(tokenizer.Config) (tokenizer.Counter, string, error)
	workingDirectory string
}

// rootOptions stores values bound to root command flags.
type rootOptions struct {
	outputPath      string
	exclusionNames  []string
	configPath      string
	copyToClipboard bool
	countTokens     bool
	tokenizerModel  string
	showVersion     bool
}

// Execute runs the dirtree application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(dependencies{
		logger:     logger,
		stdout:     os.Stdout,
		copier:     clipboard.NewService(),
		newCounter: tokenizer.NewCounter,
	})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(deps dependencies) *cobra.Command {
	var options rootOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, printErr := fmt.Fprintf(deps.stdout, versionTemplate, utils.GetApplicationVersion())
				return printErr
			}
			workingDirectory, workingDirectoryError := deps.resolveWorkingDirectory()
			if workingDirectoryError != nil {
				return workingDirectoryError
			}
			configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: options.configPath,
			})
			if loadError != nil {
				return loadError
			}
			configuration = configuration.Merge(options.overrides(command, arguments))
			return runTree(deps, workingDirectory, configuration.Settings())
		},
	}

	flags := rootCommand.Flags()
	flags.StringVarP(&options.outputPath, outputFlagName, outputFlagShort, utils.DefaultOutputFileName, outputFlagDescription)
	flags.StringArrayVarP(&options.exclusionNames, exclusionFlagName, exclusionShort, nil, exclusionFlagDescription)
	flags.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(flags, &options.copyToClipboard, clipboardFlagName, false, clipboardFlagDescription)
	registerBooleanFlag(flags, &options.countTokens, tokensFlagName, false, tokensFlagDescription)
	flags.StringVar(&options.tokenizerModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	flags.BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand(deps))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// overrides converts explicitly set flags and the positional root into a configuration layer.
func (options rootOptions) overrides(command *cobra.Command, arguments []string) config.ApplicationConfiguration {
	var layer config.ApplicationConfiguration
	if len(arguments) == 1 {
		layer.Root = arguments[0]
	}
	flags := command.Flags()
	if flags.Changed(outputFlagName) {
		layer.Output = options.outputPath
	}
	if flags.Changed(exclusionFlagName) {
		layer.Exclude = options.exclusionNames
	}
	if flags.Changed(clipboardFlagName) {
		copyToClipboard := options.copyToClipboard
		layer.Clipboard = &copyToClipboard
	}
	if flags.Changed(tokensFlagName) {
		countTokens := options.countTokens
		layer.Tokens.Enabled = &countTokens
	}
	if flags.Changed(modelFlagName) {
		layer.Tokens.Model = options.tokenizerModel
	}
	return layer
}

// createInitCommand returns the init subcommand.
func createInitCommand(deps dependencies) *cobra.Command {
	var writeGlobal bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			workingDirectory, workingDirectoryError := deps.resolveWorkingDirectory()
			if workingDirectoryError != nil {
				return workingDirectoryError
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: workingDirectory,
			})
			if initError != nil {
				return initError
			}
			_, printErr := fmt.Fprintf(deps.stdout, configurationWrittenFormat, destinationPath)
			return printErr
		},
	}
	initCommand.Flags().BoolVar(&writeGlobal, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// runTree renders the configured root, writes it to the output file and reports the result.
func runTree(deps dependencies, workingDirectory string, settings config.RunSettings) error {
	rootPath := resolvePath(workingDirectory, settings.Root)
	outputPath := resolvePath(workingDirectory, settings.Output)

	exclusions := commands.DefaultExclusions().
		Union(commands.NewExclusionSet(settings.ExtraExclusions...)).
		Union(commands.NewExclusionSet(filepath.Base(outputPath)))
	treeBuilder := commands.NewTreeBuilder(exclusions)
	treeBuilder.Warn = func(message string) {
		deps.logger.Warn(message)
	}

	treeResult, buildError := treeBuilder.BuildResult(rootPath)
	if buildError != nil {
		return buildError
	}
	if writeError := output.WriteTree(outputPath, treeResult.Text); writeError != nil {
		return writeError
	}

	if settings.CopyToClipboard {
		if copyError := deps.copier.Copy(treeResult.Text); copyError != nil {
			deps.logger.Warn(clipboardWarningMessage, zap.Error(copyError))
		}
	}
	if settings.CountTokens {
		logTokenCount(deps, settings.TokenizerModel, treeResult.Text)
	}

	return output.Confirm(deps.stdout, settings.Output)
}

func logTokenCount(deps dependencies, model string, renderedTree string) {
	counter, resolvedModel, counterError := deps.newCounter(tokenizer.Config{Model: model})
	if counterError != nil {
		deps.logger.Warn(tokenWarningMessage, zap.Error(counterError))
		return
	}
	countResult, countError := tokenizer.CountText(counter, renderedTree)
	if countError != nil {
		deps.logger.Warn(tokenWarningMessage, zap.Error(countError))
		return
	}
	if !countResult.Counted {
		return
	}
	deps.logger.Info(tokenCountMessage, zap.Int("tokens", countResult.Tokens), zap.String("model", resolvedModel))
}

func (deps dependencies) resolveWorkingDirectory() (string, error) {
	if deps.workingDirectory != "" {
		return deps.workingDirectory, nil
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	return workingDirectory, nil
}

func resolvePath(workingDirectory string, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(workingDirectory, path)
}
