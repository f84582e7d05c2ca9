package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/bbump/internal/components"
	"github.com/temirov/bbump/internal/update"
)

const (
	updaterMissingMessageConstant         = "component updater not configured"
	registryMissingMessageConstant        = "component registry not configured"
	unknownComponentTemplateConstant      = "ERROR: unknown component: %s\n"
	invalidSpecifierTemplateConstant      = "ERROR: invalid format for %s: %s\n"
	expectedFormatsMessageConstant        = "INFO: expected formats: v1.3.0 (release tag) or releases/1.3.0-main (validation branch)\n"
	validSpecifierTemplateConstant        = "OK: valid %s for %s: %s\n"
	missingRecipeFileTemplateConstant     = "ERROR: recipe file not found: %s\n"
	currentTagTemplateConstant            = "INFO: current tag in %s: %s\n"
	noCurrentTagTemplateConstant          = "INFO: no current tag found in %s\n"
	versionAlreadyCurrentTemplate         = "WARNING: %s is already current in %s\n"
	checkFailureTemplateConstant          = "ERROR: update check for %s failed: %v\n"
	resolvedBranchTemplateConstant        = "INFO: would use branch: %s\n"
	liveUpdateTemplateConstant            = "OK: updated %s (branch %s)\n"
	validationFailedTemplateConstant      = "ERROR: validation failed with %d error(s)\n"
	checksCompletedCleanMessageConstant   = "OK: all checks completed successfully\n"
	checksCompletedDirtyTemplateConstant  = "ERROR: checks completed with %d error(s) and %d warning(s)\n"
	checkingComponentTemplateConstant     = "INFO: checking %s with %s %s\n"
	specifierKindTagDescriptionConstant   = "release tag"
	specifierKindBranchDescription        = "validation branch"
	logFieldVerifyComponentConstant       = "component"
	logFieldVerifySpecifierConstant       = "specifier"
	verificationCheckStartMessageConstant = "running component verification"
)

// Sentinel errors for verification orchestration.
var (
	ErrUpdaterNotConfigured  = errors.New(updaterMissingMessageConstant)
	ErrRegistryNotConfigured = errors.New(registryMissingMessageConstant)
)

// Outcome accumulates error and warning counts across checks.
type Outcome struct {
	Errors   int
	Warnings int
}

// Merge combines two outcomes into one.
func (outcome Outcome) Merge(other Outcome) Outcome {
	return Outcome{
		Errors:   outcome.Errors + other.Errors,
		Warnings: outcome.Warnings + other.Warnings,
	}
}

// Failed reports whether any check produced an error.
func (outcome Outcome) Failed() bool {
	return outcome.Errors > 0
}

// ComponentUpdater performs a single recipe update, typically in dry-run mode.
type ComponentUpdater interface {
	Update(executionContext context.Context, options update.Options) (update.Result, error)
}

// ServiceDependencies enumerates collaborators required by the verify service.
type ServiceDependencies struct {
	Updater  ComponentUpdater
	Registry *components.Registry
	Logger   *zap.Logger
}

// Request pairs a registered component with a requested version.
type Request struct {
	Repository string
	RawVersion string
}

// Options configures one verification run.
type Options struct {
	Requests     []Request
	Organization string
	LiveRun      bool
}

// Service validates component/version pairs and dry-runs their updates,
// accumulating results instead of mutating process-wide counters.
type Service struct {
	updater  ComponentUpdater
	registry *components.Registry
	logger   *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Updater == nil {
		return nil, ErrUpdaterNotConfigured
	}
	if dependencies.Registry == nil {
		return nil, ErrRegistryNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{updater: dependencies.Updater, registry: dependencies.Registry, logger: logger}, nil
}

// Run validates every request first and, when validation passes, checks each
// component update. Reports are written to reportWriter line by line.
func (service *Service) Run(executionContext context.Context, reportWriter io.Writer, options Options) Outcome {
	service.logger.Info(verificationCheckStartMessageConstant)

	validationOutcome := Outcome{}
	for _, request := range options.Requests {
		validationOutcome = validationOutcome.Merge(service.validateRequest(reportWriter, request))
	}
	if validationOutcome.Failed() {
		fmt.Fprintf(reportWriter, validationFailedTemplateConstant, validationOutcome.Errors)
		return validationOutcome
	}

	overallOutcome := validationOutcome
	for _, request := range options.Requests {
		overallOutcome = overallOutcome.Merge(service.checkComponent(executionContext, reportWriter, request, options))
	}

	if overallOutcome.Failed() {
		fmt.Fprintf(reportWriter, checksCompletedDirtyTemplateConstant, overallOutcome.Errors, overallOutcome.Warnings)
	} else {
		fmt.Fprint(reportWriter, checksCompletedCleanMessageConstant)
	}

	return overallOutcome
}

func (service *Service) validateRequest(reportWriter io.Writer, request Request) Outcome {
	componentEntry, componentKnown := service.registry.Lookup(request.Repository)
	if !componentKnown {
		fmt.Fprintf(reportWriter, unknownComponentTemplateConstant, request.Repository)
		return Outcome{Errors: 1}
	}

	specifier, specifierError := update.ParseVersionSpecifier(request.RawVersion)
	if specifierError != nil {
		fmt.Fprintf(reportWriter, invalidSpecifierTemplateConstant, componentEntry.DisplayName, request.RawVersion)
		fmt.Fprint(reportWriter, expectedFormatsMessageConstant)
		return Outcome{Errors: 1}
	}

	fmt.Fprintf(reportWriter, validSpecifierTemplateConstant, describeSpecifierKind(specifier), componentEntry.DisplayName, specifier.Value)
	return Outcome{}
}

func (service *Service) checkComponent(executionContext context.Context, reportWriter io.Writer, request Request, options Options) Outcome {
	componentEntry, _ := service.registry.Lookup(request.Repository)
	specifier, _ := update.ParseVersionSpecifier(request.RawVersion)

	service.logger.Debug(
		verificationCheckStartMessageConstant,
		zap.String(logFieldVerifyComponentConstant, request.Repository),
		zap.String(logFieldVerifySpecifierConstant, specifier.Value),
	)

	fmt.Fprintf(reportWriter, checkingComponentTemplateConstant, componentEntry.DisplayName, describeSpecifierKind(specifier), specifier.Value)

	outcome := Outcome{}

	recipeContent, readError := os.ReadFile(componentEntry.RecipeFile)
	if readError != nil {
		fmt.Fprintf(reportWriter, missingRecipeFileTemplateConstant, componentEntry.RecipeFile)
		return Outcome{Errors: 1}
	}

	recipeDocument := update.NewRecipeDocument(string(recipeContent))
	if currentTag, tagRecorded := recipeDocument.CurrentTag(); tagRecorded {
		fmt.Fprintf(reportWriter, currentTagTemplateConstant, componentEntry.RecipeFile, currentTag)
		if currentTag == specifier.Value {
			fmt.Fprintf(reportWriter, versionAlreadyCurrentTemplate, specifier.Value, componentEntry.RecipeFile)
			outcome.Warnings++
		}
	} else {
		fmt.Fprintf(reportWriter, noCurrentTagTemplateConstant, componentEntry.RecipeFile)
	}

	updateResult, updateError := service.updater.Update(executionContext, update.Options{
		Specifier:      specifier,
		Repository:     request.Repository,
		RecipeFilePath: componentEntry.RecipeFile,
		ComponentName:  componentEntry.SourceName,
		Organization:   options.Organization,
		DryRun:         !options.LiveRun,
	})
	if updateError != nil {
		fmt.Fprintf(reportWriter, checkFailureTemplateConstant, componentEntry.DisplayName, updateError)
		outcome.Errors++
		return outcome
	}

	if options.LiveRun {
		fmt.Fprintf(reportWriter, liveUpdateTemplateConstant, componentEntry.RecipeFile, updateResult.BranchName)
	} else {
		fmt.Fprintf(reportWriter, resolvedBranchTemplateConstant, updateResult.BranchName)
	}

	return outcome
}

func describeSpecifierKind(specifier update.VersionSpecifier) string {
	if specifier.IsTag() {
		return specifierKindTagDescriptionConstant
	}
	return specifierKindBranchDescription
}
