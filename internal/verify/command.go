package verify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/bbump/internal/components"
	"github.com/temirov/bbump/internal/githubapi"
	"github.com/temirov/bbump/internal/update"
)

const (
	commandUseConstant                    = "verify"
	commandShortDescriptionConstant       = "Check component version updates without modifying recipes"
	commandLongDescriptionConstant        = "verify validates component version specifiers and dry-runs the corresponding recipe updates, reporting the branch each update would use."
	componentFlagNameConstant             = "component"
	componentFlagDescriptionConstant      = "Component and version to check as <component>=<version> (repeatable)"
	allComponentsFlagNameConstant         = "all"
	allComponentsFlagDescriptionConstant  = "Check every registered component with the same version"
	listComponentsFlagNameConstant        = "list"
	listComponentsFlagDescriptionConstant = "List registered components and exit"
	liveRunFlagNameConstant               = "live-run"
	liveRunFlagDescriptionConstant        = "Apply the updates instead of dry-running them"
	organizationFlagNameConstant          = "org"
	organizationFlagDescriptionConstant   = "GitHub organization hosting the component repositories"
	componentAssignmentSeparatorConstant  = "="
	componentAssignmentPartCountConstant  = 2
	malformedAssignmentTemplateConstant   = "malformed --component value %q: expected <component>=<version>"
	noRequestsMessageConstant             = "no component versions provided; use --component or --all"
	registryListingTemplateConstant       = "%-24s %s\n"
	verificationFailedTemplateConstant    = "verification completed with %d error(s) and %d warning(s)"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the verify command.
type CommandBuilder struct {
	LoggerProvider              LoggerProvider
	ConfigurationProvider       func() CommandConfiguration
	UpdateConfigurationProvider func() update.CommandConfiguration
	RegistryProvider            func() (*components.Registry, error)
	RemoteAPI                   update.RemoteAPI
}

// Build constructs the verify command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().StringArray(componentFlagNameConstant, nil, componentFlagDescriptionConstant)
	command.Flags().String(allComponentsFlagNameConstant, "", allComponentsFlagDescriptionConstant)
	command.Flags().Bool(listComponentsFlagNameConstant, false, listComponentsFlagDescriptionConstant)
	command.Flags().Bool(liveRunFlagNameConstant, false, liveRunFlagDescriptionConstant)
	command.Flags().String(organizationFlagNameConstant, "", organizationFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	registry, registryError := builder.resolveRegistry()
	if registryError != nil {
		return registryError
	}

	listRequested, listFlagError := command.Flags().GetBool(listComponentsFlagNameConstant)
	if listFlagError != nil {
		return listFlagError
	}
	if listRequested {
		for _, repositoryName := range registry.Keys() {
			componentEntry, _ := registry.Lookup(repositoryName)
			fmt.Fprintf(command.OutOrStdout(), registryListingTemplateConstant, repositoryName, componentEntry.DisplayName)
		}
		return nil
	}

	requests, requestsError := builder.collectRequests(command, registry)
	if requestsError != nil {
		return requestsError
	}
	if len(requests) == 0 {
		return errors.New(noRequestsMessageConstant)
	}

	configuration := builder.resolveConfiguration()
	liveRunRequested, liveRunFlagError := command.Flags().GetBool(liveRunFlagNameConstant)
	if liveRunFlagError != nil {
		return liveRunFlagError
	}
	liveRunRequested = liveRunRequested || configuration.LiveRun

	updateConfiguration := builder.resolveUpdateConfiguration()
	organization := updateConfiguration.Organization
	if command.Flags().Changed(organizationFlagNameConstant) {
		organizationFlagValue, organizationFlagError := command.Flags().GetString(organizationFlagNameConstant)
		if organizationFlagError != nil {
			return organizationFlagError
		}
		organization = strings.TrimSpace(organizationFlagValue)
	}

	logger := builder.resolveLogger()

	remoteAPI := builder.RemoteAPI
	if remoteAPI == nil {
		defaultClient, clientError := githubapi.NewDefaultClient(command.Context(), organization)
		if clientError != nil {
			return clientError
		}
		remoteAPI = defaultClient
	}

	resolver, resolverError := update.NewBranchResolver(update.ResolverDependencies{RemoteAPI: remoteAPI, Logger: logger})
	if resolverError != nil {
		return resolverError
	}

	updater, updaterError := update.NewService(update.ServiceDependencies{Resolver: resolver, Logger: logger})
	if updaterError != nil {
		return updaterError
	}

	service, serviceError := NewService(ServiceDependencies{Updater: updater, Registry: registry, Logger: logger})
	if serviceError != nil {
		return serviceError
	}

	outcome := service.Run(command.Context(), command.OutOrStdout(), Options{
		Requests:     requests,
		Organization: organization,
		LiveRun:      liveRunRequested,
	})
	if outcome.Failed() {
		return fmt.Errorf(verificationFailedTemplateConstant, outcome.Errors, outcome.Warnings)
	}

	return nil
}

func (builder *CommandBuilder) collectRequests(command *cobra.Command, registry *components.Registry) ([]Request, error) {
	sharedVersion, sharedVersionError := command.Flags().GetString(allComponentsFlagNameConstant)
	if sharedVersionError != nil {
		return nil, sharedVersionError
	}
	if len(strings.TrimSpace(sharedVersion)) > 0 {
		requests := []Request{}
		for _, repositoryName := range registry.Keys() {
			requests = append(requests, Request{Repository: repositoryName, RawVersion: strings.TrimSpace(sharedVersion)})
		}
		return requests, nil
	}

	componentAssignments, assignmentsError := command.Flags().GetStringArray(componentFlagNameConstant)
	if assignmentsError != nil {
		return nil, assignmentsError
	}

	requests := []Request{}
	for _, componentAssignment := range componentAssignments {
		assignmentParts := strings.SplitN(componentAssignment, componentAssignmentSeparatorConstant, componentAssignmentPartCountConstant)
		if len(assignmentParts) != componentAssignmentPartCountConstant {
			return nil, fmt.Errorf(malformedAssignmentTemplateConstant, componentAssignment)
		}
		requests = append(requests, Request{
			Repository: strings.TrimSpace(assignmentParts[0]),
			RawVersion: strings.TrimSpace(assignmentParts[1]),
		})
	}
	return requests, nil
}

func (builder *CommandBuilder) resolveRegistry() (*components.Registry, error) {
	if builder.RegistryProvider == nil {
		return nil, ErrRegistryNotConfigured
	}
	return builder.RegistryProvider()
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveUpdateConfiguration() update.CommandConfiguration {
	if builder.UpdateConfigurationProvider == nil {
		return update.DefaultCommandConfiguration()
	}
	return builder.UpdateConfigurationProvider().Sanitize()
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
