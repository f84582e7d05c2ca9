package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v48/github"
	"golang.org/x/oauth2"

	"github.com/temirov/bbump/internal/githubauth"
)

const (
	organizationRequiredMessageConstant     = "github organization must be provided"
	restClientMissingMessageConstant        = "github REST client not configured"
	tagReferencePrefixConstant              = "tags/"
	annotatedTagObjectTypeConstant          = "tag"
	branchListingPageSizeConstant           = 100
	operationErrorTemplateConstant          = "%s operation failed: %s"
	emptyObjectErrorTemplateConstant        = "%s returned no target object"
	resolveTagCommitOperationNameConstant   = OperationName("ResolveTagCommit")
	listReleaseBranchesOperationName        = OperationName("ListBranches")
	branchExistenceOperationNameConstant    = OperationName("BranchExists")
	compareReferencesOperationNameConstant  = OperationName("CompareRefs")
	comparisonStatusIdenticalStringConstant = "identical"
	comparisonStatusBehindStringConstant    = "behind"
	comparisonStatusAheadStringConstant     = "ahead"
	comparisonStatusDivergedStringConstant  = "diverged"
)

// OperationName identifies a remote lookup performed by the client.
type OperationName string

// RefStatus mirrors the comparison status reported by the GitHub compare endpoint.
type RefStatus string

// Comparison status enumerations.
const (
	RefStatusIdentical RefStatus = RefStatus(comparisonStatusIdenticalStringConstant)
	RefStatusBehind    RefStatus = RefStatus(comparisonStatusBehindStringConstant)
	RefStatusAhead     RefStatus = RefStatus(comparisonStatusAheadStringConstant)
	RefStatusDiverged  RefStatus = RefStatus(comparisonStatusDivergedStringConstant)
)

// ErrOrganizationRequired indicates the client was constructed without an organization.
var ErrOrganizationRequired = errors.New(organizationRequiredMessageConstant)

// ErrRESTClientNotConfigured indicates the client was constructed without a REST client.
var ErrRESTClientNotConfigured = errors.New(restClientMissingMessageConstant)

// OperationError wraps failures of individual remote lookups.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// Client performs read-only repository lookups against the GitHub REST API.
type Client struct {
	organization string
	restClient   *github.Client
}

// NewClient constructs a Client around an existing go-github REST client.
func NewClient(organization string, restClient *github.Client) (*Client, error) {
	trimmedOrganization := strings.TrimSpace(organization)
	if len(trimmedOrganization) == 0 {
		return nil, ErrOrganizationRequired
	}
	if restClient == nil {
		return nil, ErrRESTClientNotConfigured
	}
	return &Client{organization: trimmedOrganization, restClient: restClient}, nil
}

// NewDefaultClient constructs a Client for api.github.com, authenticating with
// a token from the environment when one is available.
func NewDefaultClient(executionContext context.Context, organization string) (*Client, error) {
	httpClient := &http.Client{}
	if token, tokenAvailable := githubauth.ResolveToken(); tokenAvailable {
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(executionContext, tokenSource)
	}
	return NewClient(organization, github.NewClient(httpClient))
}

// Organization reports the organization the client is bound to.
func (client *Client) Organization() string {
	return client.organization
}

// ResolveTagCommit resolves a tag name to the commit it ultimately points at,
// dereferencing annotated tag objects to their target commit.
func (client *Client) ResolveTagCommit(executionContext context.Context, repository string, tagName string) (string, error) {
	reference, _, referenceError := client.restClient.Git.GetRef(executionContext, client.organization, repository, tagReferencePrefixConstant+tagName)
	if referenceError != nil {
		return "", OperationError{Operation: resolveTagCommitOperationNameConstant, Cause: referenceError}
	}
	if reference.GetObject() == nil {
		return "", OperationError{Operation: resolveTagCommitOperationNameConstant, Cause: fmt.Errorf(emptyObjectErrorTemplateConstant, resolveTagCommitOperationNameConstant)}
	}

	objectSHA := reference.GetObject().GetSHA()
	if reference.GetObject().GetType() != annotatedTagObjectTypeConstant {
		return objectSHA, nil
	}

	annotatedTag, _, annotatedTagError := client.restClient.Git.GetTag(executionContext, client.organization, repository, objectSHA)
	if annotatedTagError != nil {
		// Lightweight tags occasionally report the annotated type; fall back to the ref SHA.
		return objectSHA, nil
	}
	if annotatedTag.GetObject() == nil {
		return objectSHA, nil
	}
	return annotatedTag.GetObject().GetSHA(), nil
}

// ListBranches enumerates every branch of the repository.
func (client *Client) ListBranches(executionContext context.Context, repository string) ([]string, error) {
	listOptions := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: branchListingPageSizeConstant}}

	branchNames := []string{}
	for {
		branchPage, response, listError := client.restClient.Repositories.ListBranches(executionContext, client.organization, repository, listOptions)
		if listError != nil {
			return nil, OperationError{Operation: listReleaseBranchesOperationName, Cause: listError}
		}
		for _, branchEntry := range branchPage {
			branchNames = append(branchNames, branchEntry.GetName())
		}
		if response == nil || response.NextPage == 0 {
			break
		}
		listOptions.Page = response.NextPage
	}

	return branchNames, nil
}

// BranchExists reports whether the named branch exists in the repository.
func (client *Client) BranchExists(executionContext context.Context, repository string, branchName string) (bool, error) {
	_, response, branchError := client.restClient.Repositories.GetBranch(executionContext, client.organization, repository, branchName, false)
	if branchError == nil {
		return true, nil
	}
	if response != nil && response.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return false, OperationError{Operation: branchExistenceOperationNameConstant, Cause: branchError}
}

// CompareRefs reports the ahead/behind status of head relative to base.
func (client *Client) CompareRefs(executionContext context.Context, repository string, baseReference string, headReference string) (RefStatus, error) {
	comparison, _, compareError := client.restClient.Repositories.CompareCommits(executionContext, client.organization, repository, baseReference, headReference, nil)
	if compareError != nil {
		return "", OperationError{Operation: compareReferencesOperationNameConstant, Cause: compareError}
	}
	return RefStatus(comparison.GetStatus()), nil
}
