package update

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

const (
	resolverMissingMessageConstant        = "branch resolver not configured"
	specifierRequiredMessageConstant      = "version specifier must be provided"
	repositoryRequiredMessageConstant     = "repository name must be provided"
	recipePathRequiredMessageConstant     = "recipe file path must be provided"
	componentNameRequiredMessageConstant  = "component name must be provided"
	organizationRequiredMessageConstant   = "organization must be provided"
	recipeFileErrorTemplateConstant       = "recipe file %s: %v"
	recipeReadErrorTemplateConstant       = "failed to read recipe file: %w"
	recipeWriteErrorTemplateConstant      = "failed to write recipe file: %w"
	recordedBranchMessageConstant         = "using branch recorded in recipe file"
	fallbackBranchMessageConstant         = "using synthesized fallback branch"
	tagInsertionSkippedMessageConstant    = "no suitable location to insert GIT_TAG"
	updateAppliedMessageConstant          = "recipe update applied"
	dryRunMessageConstant                 = "dry run, recipe file left untouched"
	logFieldRecipeFileConstant            = "recipe_file"
	logFieldModeConstant                  = "mode"
	logFieldChangedConstant               = "changed"
	logFieldResolvedBranchConstant        = "branch"
	logFieldUpdateRepositoryConstant      = "repository"
	logFieldSpecifierConstant             = "specifier"
)

// Sentinel errors for update orchestration.
var (
	ErrResolverNotConfigured = errors.New(resolverMissingMessageConstant)
	ErrSpecifierRequired     = errors.New(specifierRequiredMessageConstant)
	ErrRepositoryRequired    = errors.New(repositoryRequiredMessageConstant)
	ErrRecipePathRequired    = errors.New(recipePathRequiredMessageConstant)
	ErrComponentNameRequired = errors.New(componentNameRequiredMessageConstant)
	ErrOrganizationRequired  = errors.New(organizationRequiredMessageConstant)
)

// RecipeFileError reports filesystem problems with the targeted recipe file.
type RecipeFileError struct {
	Path  string
	Cause error
}

// Error describes the recipe file problem.
func (fileError RecipeFileError) Error() string {
	return fmt.Sprintf(recipeFileErrorTemplateConstant, fileError.Path, fileError.Cause)
}

// Unwrap exposes the underlying filesystem error.
func (fileError RecipeFileError) Unwrap() error {
	return fileError.Cause
}

// TagBranchResolver locates the release branch for a tag specifier.
type TagBranchResolver interface {
	Resolve(executionContext context.Context, repository string, specifier VersionSpecifier) (string, bool)
}

// ServiceDependencies enumerates collaborators required by the update service.
type ServiceDependencies struct {
	Resolver TagBranchResolver
	Logger   *zap.Logger
}

// Options configures a single recipe update.
type Options struct {
	Specifier      VersionSpecifier
	Repository     string
	RecipeFilePath string
	ComponentName  string
	Organization   string
	DryRun         bool
}

// Result captures the observable outcome of an update.
type Result struct {
	Mode           SpecifierKind
	BranchName     string
	RecipeFilePath string
	Changed        bool
}

// Service performs the full read-mutate-write cycle for one recipe file.
type Service struct {
	resolver TagBranchResolver
	logger   *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Resolver == nil {
		return nil, ErrResolverNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{resolver: dependencies.Resolver, logger: logger}, nil
}

// Update rewrites the recipe file for the requested version specifier. The
// file is fully read, mutated in memory, and fully rewritten; a dry run stops
// after mutation and reports whether the file would change.
func (service *Service) Update(executionContext context.Context, options Options) (Result, error) {
	if validationError := validateOptions(options); validationError != nil {
		return Result{}, validationError
	}

	recipeFileInfo, statError := os.Stat(options.RecipeFilePath)
	if statError != nil {
		return Result{}, RecipeFileError{Path: options.RecipeFilePath, Cause: statError}
	}

	originalContent, readError := os.ReadFile(options.RecipeFilePath)
	if readError != nil {
		return Result{}, fmt.Errorf(recipeReadErrorTemplateConstant, readError)
	}

	document := NewRecipeDocument(string(originalContent))

	var branchName string
	switch options.Specifier.Kind {
	case SpecifierKindTag:
		branchName = service.resolveTagBranch(executionContext, document, options)
		document.ApplyTag(options.Specifier.Value, branchName, options.Organization, options.Repository, options.ComponentName)
		if !strings.Contains(document.Content(), gitTagFieldMarkerConstant) {
			service.logger.Warn(
				tagInsertionSkippedMessageConstant,
				zap.String(logFieldRecipeFileConstant, options.RecipeFilePath),
			)
		}
	case SpecifierKindValidationBranch:
		branchName = options.Specifier.Value
		document.ApplyValidationBranch(branchName, options.Organization, options.Repository, options.ComponentName)
	}

	updatedContent := document.Content()
	result := Result{
		Mode:           options.Specifier.Kind,
		BranchName:     branchName,
		RecipeFilePath: options.RecipeFilePath,
		Changed:        updatedContent != string(originalContent),
	}

	if options.DryRun {
		service.logger.Info(
			dryRunMessageConstant,
			zap.String(logFieldRecipeFileConstant, options.RecipeFilePath),
			zap.String(logFieldResolvedBranchConstant, branchName),
			zap.Bool(logFieldChangedConstant, result.Changed),
		)
		return result, nil
	}

	if writeError := os.WriteFile(options.RecipeFilePath, []byte(updatedContent), recipeFileInfo.Mode().Perm()); writeError != nil {
		return Result{}, fmt.Errorf(recipeWriteErrorTemplateConstant, writeError)
	}

	service.logger.Info(
		updateAppliedMessageConstant,
		zap.String(logFieldRecipeFileConstant, options.RecipeFilePath),
		zap.String(logFieldModeConstant, string(result.Mode)),
		zap.String(logFieldResolvedBranchConstant, branchName),
		zap.Bool(logFieldChangedConstant, result.Changed),
	)

	return result, nil
}

// resolveTagBranch walks the fallback chain: remote resolution, then the
// branch recorded in the recipe file, then the synthesized branch name. It
// always yields a branch string.
func (service *Service) resolveTagBranch(executionContext context.Context, document *RecipeDocument, options Options) string {
	if branchName, resolved := service.resolver.Resolve(executionContext, options.Repository, options.Specifier); resolved {
		return branchName
	}

	if recordedBranch, recorded := document.RecordedBranch(options.Organization, options.Repository); recorded {
		service.logger.Info(
			recordedBranchMessageConstant,
			zap.String(logFieldUpdateRepositoryConstant, options.Repository),
			zap.String(logFieldResolvedBranchConstant, recordedBranch),
		)
		return recordedBranch
	}

	fallbackBranch := options.Specifier.FallbackBranch()
	service.logger.Info(
		fallbackBranchMessageConstant,
		zap.String(logFieldSpecifierConstant, options.Specifier.Value),
		zap.String(logFieldResolvedBranchConstant, fallbackBranch),
	)
	return fallbackBranch
}

func validateOptions(options Options) error {
	if len(options.Specifier.Kind) == 0 {
		return ErrSpecifierRequired
	}
	if len(strings.TrimSpace(options.Repository)) == 0 {
		return ErrRepositoryRequired
	}
	if len(strings.TrimSpace(options.RecipeFilePath)) == 0 {
		return ErrRecipePathRequired
	}
	if len(strings.TrimSpace(options.ComponentName)) == 0 {
		return ErrComponentNameRequired
	}
	if len(strings.TrimSpace(options.Organization)) == 0 {
		return ErrOrganizationRequired
	}
	return nil
}
