package githubauth

import (
	"os"
	"strings"
)

// Environment variable names consulted for GitHub API authentication.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// ResolveToken returns the first non-empty GitHub authentication token found in
// the process environment, honoring the GH_TOKEN, GITHUB_TOKEN,
// GITHUB_API_TOKEN preference order. Anonymous access remains possible when no
// token is present; the updater only performs read-only lookups.
func ResolveToken() (string, bool) {
	for _, environmentVariableName := range tokenPreference {
		rawValue, exists := os.LookupEnv(environmentVariableName)
		if !exists {
			continue
		}
		trimmedValue := strings.TrimSpace(rawValue)
		if len(trimmedValue) > 0 {
			return trimmedValue, true
		}
	}
	return "", false
}
