package update

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const validationModeRecipeConstant = `SUMMARY = "WAN Manager"
LICENSE = "Apache-2.0"
LIC_FILES_CHKSUM = "file://LICENSE;md5=1c0fd1529d"

DEPENDS = "ccsp-common-library hal-platform"

SRC_URI = "git://github.com/rdkcentral/wan-manager.git;branch=releases/2.10.0-main;protocol=https;name=WanManager;"
SRCREV = "${AUTOREV}"
`

const tagModeRecipeConstant = `SUMMARY = "WAN Manager"
LICENSE = "Apache-2.0"
LIC_FILES_CHKSUM = "file://LICENSE;md5=1c0fd1529d"

# Please use below part only for official release and release candidates
GIT_TAG = "v2.11.0"

DEPENDS = "ccsp-common-library hal-platform"

SRC_URI := "git://github.com/rdkcentral/wan-manager.git;branch=releases/2.11.0-main;protocol=https;name=WanManager;tag=${GIT_TAG}"
PV = "${GIT_TAG}+git${SRCPV}"
#SRCREV = "${AUTOREV}"
`

func TestApplyTagRewritesValidationModeRecipe(t *testing.T) {
	document := NewRecipeDocument(validationModeRecipeConstant)

	document.ApplyTag("v2.11.0", "releases/2.11.0-main", "rdkcentral", "wan-manager", "WanManager")

	require.Equal(t, tagModeRecipeConstant, document.Content())
}

func TestApplyTagIsIdempotent(t *testing.T) {
	document := NewRecipeDocument(validationModeRecipeConstant)
	document.ApplyTag("v2.11.0", "releases/2.11.0-main", "rdkcentral", "wan-manager", "WanManager")
	firstPassContent := document.Content()

	document.ApplyTag("v2.11.0", "releases/2.11.0-main", "rdkcentral", "wan-manager", "WanManager")

	require.Equal(t, firstPassContent, document.Content())
}

func TestApplyTagUpdatesExistingTagField(t *testing.T) {
	document := NewRecipeDocument(tagModeRecipeConstant)

	document.ApplyTag("v2.12.0", "releases/2.12.0-main", "rdkcentral", "wan-manager", "WanManager")

	require.Contains(t, document.Content(), `GIT_TAG = "v2.12.0"`)
	require.NotContains(t, document.Content(), `GIT_TAG = "v2.11.0"`)
	require.Contains(t, document.Content(), "branch=releases/2.12.0-main")
	require.Equal(t, 1, strings.Count(document.Content(), "GIT_TAG = \""))
}

func TestApplyTagInsertsAfterDependencyFieldWithoutChecksum(t *testing.T) {
	recipeWithoutChecksum := `SUMMARY = "IPoE Health Check"
DEPENDS = "ccsp-common-library"

SRC_URI = "git://github.com/rdkcentral/ipoe-health-check.git;branch=releases/1.3.0-main;protocol=https;name=IPoEHealthCheck;"
SRCREV = "${AUTOREV}"
`
	document := NewRecipeDocument(recipeWithoutChecksum)

	document.ApplyTag("v1.4.0", "releases/1.4.0-main", "rdkcentral", "ipoe-health-check", "IPoEHealthCheck")

	documentLines := strings.Split(document.Content(), "\n")
	dependsIndex := -1
	tagIndex := -1
	for lineIndex, documentLine := range documentLines {
		if strings.HasPrefix(documentLine, "DEPENDS") {
			dependsIndex = lineIndex
		}
		if strings.HasPrefix(documentLine, "GIT_TAG") {
			tagIndex = lineIndex
		}
	}
	require.Greater(t, tagIndex, dependsIndex)
	require.Contains(t, document.Content(), `GIT_TAG = "v1.4.0"`)
}

func TestApplyTagSkipsInsertionWithoutAnchorField(t *testing.T) {
	recipeWithoutAnchors := `SUMMARY = "Component"

SRC_URI = "git://github.com/rdkcentral/wan-manager.git;branch=releases/1.0.0-main;protocol=https;name=WanManager;"
`
	document := NewRecipeDocument(recipeWithoutAnchors)

	document.ApplyTag("v1.1.0", "releases/1.1.0-main", "rdkcentral", "wan-manager", "WanManager")

	require.NotContains(t, document.Content(), "GIT_TAG = ")
	require.Contains(t, document.Content(), "branch=releases/1.1.0-main")
}

func TestApplyValidationBranchRemovesTagModeFields(t *testing.T) {
	document := NewRecipeDocument(tagModeRecipeConstant)

	document.ApplyValidationBranch("releases/1.4.0-main", "rdkcentral", "wan-manager", "WanManager")

	updatedContent := document.Content()
	require.NotContains(t, updatedContent, "GIT_TAG = ")
	require.NotContains(t, updatedContent, "tag=${GIT_TAG}")
	require.NotContains(t, updatedContent, "#SRCREV")
	require.NotContains(t, updatedContent, "PV = ")
	require.Contains(t, updatedContent, `SRC_URI = "git://github.com/rdkcentral/wan-manager.git;branch=releases/1.4.0-main;protocol=https;name=WanManager;"`)
	require.Equal(t, 1, strings.Count(updatedContent, `SRCREV = "${AUTOREV}"`))
}

func TestApplyValidationBranchIsIdempotent(t *testing.T) {
	document := NewRecipeDocument(tagModeRecipeConstant)
	document.ApplyValidationBranch("releases/1.4.0-main", "rdkcentral", "wan-manager", "WanManager")
	firstPassContent := document.Content()

	document.ApplyValidationBranch("releases/1.4.0-main", "rdkcentral", "wan-manager", "WanManager")

	require.Equal(t, firstPassContent, document.Content())
}

func TestApplyValidationBranchAppendsRevisionWhenAbsent(t *testing.T) {
	recipeWithoutRevision := `SUMMARY = "WAN Manager"
LIC_FILES_CHKSUM = "file://LICENSE;md5=1c0fd1529d"

SRC_URI = "git://github.com/rdkcentral/wan-manager.git;branch=releases/2.10.0-main;protocol=https;name=WanManager;"
`
	document := NewRecipeDocument(recipeWithoutRevision)

	document.ApplyValidationBranch("releases/2.12.0-main", "rdkcentral", "wan-manager", "WanManager")

	require.Equal(t, 1, strings.Count(document.Content(), `SRCREV = "${AUTOREV}"`))
	require.Contains(t, document.Content(), "branch=releases/2.12.0-main")
}

func TestMutationCollapsesBlankLineRuns(t *testing.T) {
	recipeWithBlankRuns := "SUMMARY = \"Component\"\nLIC_FILES_CHKSUM = \"file://LICENSE;md5=abc\"\n\n\n\n\nSRC_URI = \"git://github.com/rdkcentral/wan-manager.git;branch=releases/1.0.0-main;protocol=https;name=WanManager;\"\n"
	document := NewRecipeDocument(recipeWithBlankRuns)

	document.ApplyValidationBranch("releases/1.0.0-main", "rdkcentral", "wan-manager", "WanManager")

	require.NotContains(t, document.Content(), "\n\n\n")
}

func TestRecordedBranchReadsDisabledSourceLine(t *testing.T) {
	recipeWithDisabledSource := `SUMMARY = "WAN Manager"
#SRC_URI = "git://github.com/rdkcentral/wan-manager.git;branch=releases/2.9.0-main;protocol=https;name=WanManager;"
SRC_URI = "git://github.com/rdkcentral/other.git;branch=main;protocol=https;name=Other;"
`
	document := NewRecipeDocument(recipeWithDisabledSource)

	recordedBranch, recorded := document.RecordedBranch("rdkcentral", "wan-manager")
	require.True(t, recorded)
	require.Equal(t, "releases/2.9.0-main", recordedBranch)

	_, recordedForOtherRepository := document.RecordedBranch("rdkcentral", "gpon-manager")
	require.False(t, recordedForOtherRepository)
}

func TestCurrentTagPrefersActiveField(t *testing.T) {
	document := NewRecipeDocument(tagModeRecipeConstant)
	currentTag, tagRecorded := document.CurrentTag()
	require.True(t, tagRecorded)
	require.Equal(t, "v2.11.0", currentTag)

	disabledTagDocument := NewRecipeDocument("#GIT_TAG = \"v1.0.0\"\n")
	disabledTag, disabledTagRecorded := disabledTagDocument.CurrentTag()
	require.True(t, disabledTagRecorded)
	require.Equal(t, "v1.0.0", disabledTag)

	_, absentTagRecorded := NewRecipeDocument("SUMMARY = \"Component\"\n").CurrentTag()
	require.False(t, absentTagRecorded)
}
