package update

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func executeUpdateCommand(t *testing.T, builder *CommandBuilder, arguments ...string) (string, error) {
	t.Helper()
	command, buildError := builder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs(arguments)

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestCommandDeclaresFlags(t *testing.T) {
	builder := &CommandBuilder{}
	command, buildError := builder.Build()
	require.NoError(t, buildError)

	require.NotNil(t, command.Flags().Lookup("org"))
	require.NotNil(t, command.Flags().Lookup("dry-run"))
}

func TestCommandRejectsInvalidSpecifierBeforeTouchingFiles(t *testing.T) {
	builder := &CommandBuilder{RemoteAPI: &stubRemoteAPI{}}

	_, executionError := executeUpdateCommand(t, builder, "2.11.0", "wan-manager", "missing.bb", "WanManager")

	var invalidError InvalidSpecifierError
	require.ErrorAs(t, executionError, &invalidError)
}

func TestCommandDryRunReportsWithoutWriting(t *testing.T) {
	recipeFilePath := writeRecipeFixture(t, validationModeRecipeConstant)
	builder := &CommandBuilder{
		RemoteAPI: &stubRemoteAPI{existingBranches: map[string]bool{"releases/2.11.0-main": true}},
	}

	commandOutput, executionError := executeUpdateCommand(
		t, builder, "v2.11.0", "wan-manager", recipeFilePath, "WanManager", "--dry-run",
	)
	require.NoError(t, executionError)
	require.Contains(t, commandOutput, "DRY RUN: would update "+recipeFilePath+" with tag v2.11.0 (branch releases/2.11.0-main)")

	persistedContent, readError := os.ReadFile(recipeFilePath)
	require.NoError(t, readError)
	require.Equal(t, validationModeRecipeConstant, string(persistedContent))
}

func TestCommandUpdatesRecipeFile(t *testing.T) {
	recipeFilePath := writeRecipeFixture(t, validationModeRecipeConstant)
	builder := &CommandBuilder{
		RemoteAPI: &stubRemoteAPI{existingBranches: map[string]bool{"releases/2.11.0-main": true}},
	}

	commandOutput, executionError := executeUpdateCommand(
		t, builder, "v2.11.0", "wan-manager", recipeFilePath, "WanManager",
	)
	require.NoError(t, executionError)
	require.Contains(t, commandOutput, "UPDATED: "+recipeFilePath+" with tag v2.11.0 (branch releases/2.11.0-main)")

	persistedContent, readError := os.ReadFile(recipeFilePath)
	require.NoError(t, readError)
	require.Equal(t, tagModeRecipeConstant, string(persistedContent))
}

func TestCommandAppliesValidationBranchSpecifier(t *testing.T) {
	recipeFilePath := writeRecipeFixture(t, tagModeRecipeConstant)
	builder := &CommandBuilder{RemoteAPI: &stubRemoteAPI{}}

	commandOutput, executionError := executeUpdateCommand(
		t, builder, "releases/2.12.0-main", "wan-manager", recipeFilePath, "WanManager",
	)
	require.NoError(t, executionError)
	require.Contains(t, commandOutput, "UPDATED: "+recipeFilePath+" with branch releases/2.12.0-main (branch releases/2.12.0-main)")

	persistedContent, readError := os.ReadFile(recipeFilePath)
	require.NoError(t, readError)
	require.NotContains(t, string(persistedContent), "GIT_TAG = ")
	require.Contains(t, string(persistedContent), "branch=releases/2.12.0-main")
}

func TestCommandOrganizationFlagOverridesConfiguration(t *testing.T) {
	recipeFilePath := writeRecipeFixture(t, validationModeRecipeConstant)
	builder := &CommandBuilder{
		ConfigurationProvider: func() CommandConfiguration {
			return CommandConfiguration{Organization: "some-other-org"}
		},
		RemoteAPI: &stubRemoteAPI{existingBranches: map[string]bool{"releases/2.11.0-main": true}},
	}

	_, executionError := executeUpdateCommand(
		t, builder, "v2.11.0", "wan-manager", recipeFilePath, "WanManager", "--org", "rdkcentral",
	)
	require.NoError(t, executionError)

	persistedContent, readError := os.ReadFile(recipeFilePath)
	require.NoError(t, readError)
	require.Contains(t, string(persistedContent), "git://github.com/rdkcentral/wan-manager.git")
	require.Contains(t, string(persistedContent), "tag=${GIT_TAG}")
}
