package githubauth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveTokenHonorsPreferenceOrder(t *testing.T) {
	testCases := []struct {
		name          string
		environment   map[string]string
		expectedToken string
		expectToken   bool
	}{
		{
			name: "CLITokenWins",
			environment: map[string]string{
				EnvGitHubCLIToken: "cli-token",
				EnvGitHubToken:    "plain-token",
				EnvGitHubAPIToken: "api-token",
			},
			expectedToken: "cli-token",
			expectToken:   true,
		},
		{
			name: "PlainTokenBeatsAPIToken",
			environment: map[string]string{
				EnvGitHubToken:    "plain-token",
				EnvGitHubAPIToken: "api-token",
			},
			expectedToken: "plain-token",
			expectToken:   true,
		},
		{
			name: "APITokenAsLastResort",
			environment: map[string]string{
				EnvGitHubAPIToken: "api-token",
			},
			expectedToken: "api-token",
			expectToken:   true,
		},
		{
			name: "BlankValuesSkipped",
			environment: map[string]string{
				EnvGitHubCLIToken: "   ",
				EnvGitHubToken:    "plain-token",
			},
			expectedToken: "plain-token",
			expectToken:   true,
		},
		{
			name:        "NoTokenConfigured",
			environment: map[string]string{},
		},
		{
			name: "WhitespaceTrimmed",
			environment: map[string]string{
				EnvGitHubToken: "  padded-token  ",
			},
			expectedToken: "padded-token",
			expectToken:   true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			for _, environmentVariableName := range tokenPreference {
				t.Setenv(environmentVariableName, "")
			}
			for environmentVariableName, environmentValue := range testCase.environment {
				t.Setenv(environmentVariableName, environmentValue)
			}

			resolvedToken, tokenAvailable := ResolveToken()
			require.Equal(t, testCase.expectToken, tokenAvailable)
			require.Equal(t, testCase.expectedToken, resolvedToken)
		})
	}
}
