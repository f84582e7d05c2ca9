package update

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/bbump/internal/githubapi"
)

const (
	remoteAPIMissingMessageConstant     = "remote repository API not configured"
	releaseBranchPrefixConstant         = "releases/"
	tagCommitResolvedMessageConstant    = "resolved tag commit"
	tagCommitLookupFailedMessage        = "tag commit lookup failed"
	branchListingFailedMessageConstant  = "release branch listing failed"
	ancestryMatchMessageConstant        = "found release branch containing tag"
	branchComparisonFailedMessage       = "branch comparison failed"
	patternProbeMessageConstant         = "probing branch naming patterns"
	patternMatchMessageConstant         = "found release branch by naming pattern"
	branchProbeFailedMessageConstant    = "branch existence probe failed"
	resolutionExhaustedMessageConstant  = "remote branch resolution exhausted"
	logFieldRepositoryConstant          = "repository"
	logFieldTagConstant                 = "tag"
	logFieldCommitConstant              = "commit"
	logFieldBranchConstant              = "branch"
	logFieldCandidateBranchConstant     = "candidate_branch"
	logFieldComparisonStatusConstant    = "comparison_status"
)

// ErrRemoteAPINotConfigured indicates the resolver was constructed without a remote API.
var ErrRemoteAPINotConfigured = errors.New(remoteAPIMissingMessageConstant)

// RemoteAPI enumerates the read-only repository lookups branch resolution depends on.
type RemoteAPI interface {
	ResolveTagCommit(executionContext context.Context, repository string, tagName string) (string, error)
	ListBranches(executionContext context.Context, repository string) ([]string, error)
	BranchExists(executionContext context.Context, repository string, branchName string) (bool, error)
	CompareRefs(executionContext context.Context, repository string, baseReference string, headReference string) (githubapi.RefStatus, error)
}

// ResolverDependencies enumerates collaborators required by BranchResolver.
type ResolverDependencies struct {
	RemoteAPI RemoteAPI
	Logger    *zap.Logger
}

// BranchResolver locates the release branch containing a tag.
type BranchResolver struct {
	remoteAPI RemoteAPI
	logger    *zap.Logger
}

// NewBranchResolver constructs a BranchResolver from the provided dependencies.
func NewBranchResolver(dependencies ResolverDependencies) (*BranchResolver, error) {
	if dependencies.RemoteAPI == nil {
		return nil, ErrRemoteAPINotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BranchResolver{remoteAPI: dependencies.RemoteAPI, logger: logger}, nil
}

// Resolve determines which release branch contains the tag. Commit ancestry
// through the remote API is tried first, then ordered naming-pattern guesses.
// A false result means both remote tiers failed; the caller is expected to
// fall back to recipe metadata or a synthesized branch name.
func (resolver *BranchResolver) Resolve(executionContext context.Context, repository string, specifier VersionSpecifier) (string, bool) {
	if !specifier.IsTag() {
		return specifier.Value, true
	}

	if branchName, found := resolver.resolveByAncestry(executionContext, repository, specifier.Value); found {
		return branchName, true
	}

	if branchName, found := resolver.resolveByPattern(executionContext, repository, specifier); found {
		return branchName, true
	}

	resolver.logger.Warn(
		resolutionExhaustedMessageConstant,
		zap.String(logFieldRepositoryConstant, repository),
		zap.String(logFieldTagConstant, specifier.Value),
	)
	return "", false
}

func (resolver *BranchResolver) resolveByAncestry(executionContext context.Context, repository string, tagName string) (string, bool) {
	commitSHA, commitError := resolver.remoteAPI.ResolveTagCommit(executionContext, repository, tagName)
	if commitError != nil {
		resolver.logger.Debug(
			tagCommitLookupFailedMessage,
			zap.String(logFieldRepositoryConstant, repository),
			zap.String(logFieldTagConstant, tagName),
			zap.Error(commitError),
		)
		return "", false
	}

	resolver.logger.Debug(
		tagCommitResolvedMessageConstant,
		zap.String(logFieldTagConstant, tagName),
		zap.String(logFieldCommitConstant, commitSHA),
	)

	branchNames, listError := resolver.remoteAPI.ListBranches(executionContext, repository)
	if listError != nil {
		resolver.logger.Debug(
			branchListingFailedMessageConstant,
			zap.String(logFieldRepositoryConstant, repository),
			zap.Error(listError),
		)
		return "", false
	}

	for _, branchName := range branchNames {
		if !strings.HasPrefix(branchName, releaseBranchPrefixConstant) {
			continue
		}

		comparisonStatus, comparisonError := resolver.remoteAPI.CompareRefs(executionContext, repository, branchName, commitSHA)
		if comparisonError != nil {
			resolver.logger.Debug(
				branchComparisonFailedMessage,
				zap.String(logFieldCandidateBranchConstant, branchName),
				zap.Error(comparisonError),
			)
			continue
		}

		// A branch tip identical to or behind the tag commit contains the tag.
		if comparisonStatus == githubapi.RefStatusIdentical || comparisonStatus == githubapi.RefStatusBehind {
			resolver.logger.Info(
				ancestryMatchMessageConstant,
				zap.String(logFieldBranchConstant, branchName),
				zap.String(logFieldComparisonStatusConstant, string(comparisonStatus)),
			)
			return branchName, true
		}
	}

	return "", false
}

func (resolver *BranchResolver) resolveByPattern(executionContext context.Context, repository string, specifier VersionSpecifier) (string, bool) {
	resolver.logger.Debug(
		patternProbeMessageConstant,
		zap.String(logFieldRepositoryConstant, repository),
		zap.String(logFieldTagConstant, specifier.Value),
	)

	for _, candidateBranch := range specifier.BranchGuesses() {
		branchExists, probeError := resolver.remoteAPI.BranchExists(executionContext, repository, candidateBranch)
		if probeError != nil {
			resolver.logger.Debug(
				branchProbeFailedMessageConstant,
				zap.String(logFieldCandidateBranchConstant, candidateBranch),
				zap.Error(probeError),
			)
			continue
		}
		if branchExists {
			resolver.logger.Info(
				patternMatchMessageConstant,
				zap.String(logFieldBranchConstant, candidateBranch),
			)
			return candidateBranch, true
		}
	}

	return "", false
}
