package update

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/bbump/internal/githubapi"
)

const (
	commandUseConstant                  = "update <version> <repository> <recipe-file> <component-name>"
	commandShortDescriptionConstant     = "Point a recipe file at a new component version"
	commandLongDescriptionConstant      = "update rewrites a recipe file so the component references a release tag or a validation branch, resolving the release branch that contains the tag through the remote repository API."
	organizationFlagNameConstant        = "org"
	organizationFlagDescriptionConstant = "GitHub organization hosting the component repositories"
	dryRunFlagNameConstant              = "dry-run"
	dryRunFlagDescriptionConstant       = "Resolve and report without modifying the recipe file"
	positionalArgumentCountConstant     = 4
	updateSuccessTemplateConstant       = "UPDATED: %s with %s %s (branch %s)\n"
	dryRunReportTemplateConstant        = "DRY RUN: would update %s with %s %s (branch %s)\n"
	tagModeDescriptionConstant          = "tag"
	branchModeDescriptionConstant       = "branch"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the update command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	RemoteAPI             RemoteAPI
}

// Build constructs the update command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ExactArgs(positionalArgumentCountConstant),
		RunE:  builder.run,
	}

	command.Flags().String(organizationFlagNameConstant, "", organizationFlagDescriptionConstant)
	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	specifier, specifierError := ParseVersionSpecifier(arguments[0])
	if specifierError != nil {
		return specifierError
	}

	repositoryName := strings.TrimSpace(arguments[1])
	recipeFilePath := strings.TrimSpace(arguments[2])
	componentName := strings.TrimSpace(arguments[3])

	organization := configuration.Organization
	if command.Flags().Changed(organizationFlagNameConstant) {
		organizationFlagValue, organizationFlagError := command.Flags().GetString(organizationFlagNameConstant)
		if organizationFlagError != nil {
			return organizationFlagError
		}
		organization = strings.TrimSpace(organizationFlagValue)
	}

	dryRunRequested, dryRunFlagError := command.Flags().GetBool(dryRunFlagNameConstant)
	if dryRunFlagError != nil {
		return dryRunFlagError
	}
	dryRunRequested = dryRunRequested || configuration.DryRun

	logger := builder.resolveLogger()

	remoteAPI := builder.RemoteAPI
	if remoteAPI == nil {
		defaultClient, clientError := githubapi.NewDefaultClient(command.Context(), organization)
		if clientError != nil {
			return clientError
		}
		remoteAPI = defaultClient
	}

	resolver, resolverError := NewBranchResolver(ResolverDependencies{RemoteAPI: remoteAPI, Logger: logger})
	if resolverError != nil {
		return resolverError
	}

	service, serviceError := NewService(ServiceDependencies{Resolver: resolver, Logger: logger})
	if serviceError != nil {
		return serviceError
	}

	result, updateError := service.Update(command.Context(), Options{
		Specifier:      specifier,
		Repository:     repositoryName,
		RecipeFilePath: recipeFilePath,
		ComponentName:  componentName,
		Organization:   organization,
		DryRun:         dryRunRequested,
	})
	if updateError != nil {
		return updateError
	}

	reportTemplate := updateSuccessTemplateConstant
	if dryRunRequested {
		reportTemplate = dryRunReportTemplateConstant
	}
	fmt.Fprintf(command.OutOrStdout(), reportTemplate, recipeFilePath, describeMode(result.Mode), specifier.Value, result.BranchName)

	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func describeMode(mode SpecifierKind) string {
	if mode == SpecifierKindTag {
		return tagModeDescriptionConstant
	}
	return branchModeDescriptionConstant
}
