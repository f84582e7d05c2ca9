package update

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseVersionSpecifierClassifiesInputs(t *testing.T) {
	testCases := []struct {
		name          string
		rawValue      string
		expectedKind  SpecifierKind
		expectedValue string
		expectInvalid bool
	}{
		{
			name:          "ReleaseTag",
			rawValue:      "v2.11.0",
			expectedKind:  SpecifierKindTag,
			expectedValue: "v2.11.0",
		},
		{
			name:          "ReleaseTagWithPrerelease",
			rawValue:      "v1.5.0-rc1",
			expectedKind:  SpecifierKindTag,
			expectedValue: "v1.5.0-rc1",
		},
		{
			name:          "ValidationBranch",
			rawValue:      "releases/1.4.0-main",
			expectedKind:  SpecifierKindValidationBranch,
			expectedValue: "releases/1.4.0-main",
		},
		{
			name:          "SurroundingWhitespace",
			rawValue:      "  v1.3.0  ",
			expectedKind:  SpecifierKindTag,
			expectedValue: "v1.3.0",
		},
		{
			name:          "TagWithoutPrefix",
			rawValue:      "1.3.0",
			expectInvalid: true,
		},
		{
			name:          "TagWithoutPatchComponent",
			rawValue:      "v1.3",
			expectInvalid: true,
		},
		{
			name:          "BranchWithoutMainSuffix",
			rawValue:      "releases/1.3.0",
			expectInvalid: true,
		},
		{
			name:          "BranchWithoutReleasesPrefix",
			rawValue:      "feature/1.3.0-main",
			expectInvalid: true,
		},
		{
			name:          "EmptyValue",
			rawValue:      "",
			expectInvalid: true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			specifier, parseError := ParseVersionSpecifier(testCase.rawValue)
			if testCase.expectInvalid {
				var invalidError InvalidSpecifierError
				require.ErrorAs(t, parseError, &invalidError)
				return
			}
			require.NoError(t, parseError)
			require.Equal(t, testCase.expectedKind, specifier.Kind)
			require.Equal(t, testCase.expectedValue, specifier.Value)
		})
	}
}

func TestBranchGuessesFollowNamingConventionOrder(t *testing.T) {
	specifier, parseError := ParseVersionSpecifier("v2.11.3")
	require.NoError(t, parseError)

	require.Equal(t, []string{
		"releases/2.11.0-main",
		"releases/2.11.3-main",
		"releases/2.11-main",
		"release-2.11",
		"release-2.11.3",
	}, specifier.BranchGuesses())
}

func TestBranchGuessesEmptyForValidationBranch(t *testing.T) {
	specifier, parseError := ParseVersionSpecifier("releases/1.4.0-main")
	require.NoError(t, parseError)
	require.Empty(t, specifier.BranchGuesses())
}

func TestFallbackBranchSynthesizesMajorMinor(t *testing.T) {
	specifier, parseError := ParseVersionSpecifier("v2.11.0")
	require.NoError(t, parseError)
	require.Equal(t, "releases/2.11.0-main", specifier.FallbackBranch())

	patchSpecifier, patchParseError := ParseVersionSpecifier("v1.5.7")
	require.NoError(t, patchParseError)
	require.Equal(t, "releases/1.5.0-main", patchSpecifier.FallbackBranch())
}

func TestInvalidSpecifierErrorMentionsExpectedFormats(t *testing.T) {
	_, parseError := ParseVersionSpecifier("1.3.0")
	require.Error(t, parseError)
	require.Contains(t, parseError.Error(), "v1.3.0")
	require.Contains(t, parseError.Error(), "releases/1.3.0-main")
}
