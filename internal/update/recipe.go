package update

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	gitTagFieldMarkerConstant            = "GIT_TAG = "
	pvFieldMarkerConstant                = "PV = "
	srcrevFieldMarkerConstant            = "SRCREV = "
	licenseChecksumFieldMarkerConstant   = "LIC_FILES_CHKSUM"
	dependsFieldMarkerConstant           = "DEPENDS"
	officialReleaseCommentConstant       = "# Please use below part only for official release and release candidates"
	gitTagLineTemplateConstant           = "GIT_TAG = \"%s\""
	tagModeSourceURITemplateConstant     = "SRC_URI := \"git://github.com/%s/%s.git;branch=%s;protocol=https;name=%s;tag=${GIT_TAG}\""
	branchModeSourceURITemplateConstant  = "SRC_URI = \"git://github.com/%s/%s.git;branch=%s;protocol=https;name=%s;\""
	tagPlaceholderVersionLineConstant    = "PV = \"${GIT_TAG}+git${SRCPV}\""
	autoRevisionLineConstant             = "SRCREV = \"${AUTOREV}\""
	disabledRevisionPrefixConstant       = "#SRCREV = "
	sourceURIPatternTemplateConstant     = `SRC_URI\s*[:=]+\s*"git://github\.com/%s/%s\.git[^"]*"`
	recordedBranchPatternTemplateConsant = `^#SRC_URI.*github\.com/%s/%s.*?branch=([^;]+)`
	lineSeparatorConstant                = "\n"
)

var (
	gitTagLinePattern        = regexp.MustCompile(`GIT_TAG = ".*"`)
	gitTagLineRemovalPattern = regexp.MustCompile(`(?m)^GIT_TAG = ".*"` + lineSeparatorConstant + `?`)
	versionLinePattern       = regexp.MustCompile(`PV = ".*"`)
	tagVersionLinePattern    = regexp.MustCompile(`PV = "\$\{GIT_TAG\}\+git\$\{SRCPV\}"`)
	activeRevisionPattern    = regexp.MustCompile(`(?m)^SRCREV = `)
	disabledRevisionPattern  = regexp.MustCompile(`(?m)^#SRCREV = `)
	activeTagLinePattern     = regexp.MustCompile(`(?m)^GIT_TAG = "([^"]*)"`)
	disabledTagLinePattern   = regexp.MustCompile(`(?m)^#GIT_TAG = "([^"]*)"`)
	blankLineRunPattern      = regexp.MustCompile(`\n{3,}`)
)

// RecipeDocument is the mutable text of one recipe file.
type RecipeDocument struct {
	content string
}

// NewRecipeDocument wraps raw recipe text for mutation.
func NewRecipeDocument(content string) *RecipeDocument {
	return &RecipeDocument{content: content}
}

// Content returns the current document text.
func (document *RecipeDocument) Content() string {
	return document.content
}

// CurrentTag reports the tag recorded in the document, preferring an active
// GIT_TAG line over a disabled one.
func (document *RecipeDocument) CurrentTag() (string, bool) {
	if match := activeTagLinePattern.FindStringSubmatch(document.content); match != nil {
		return match[1], true
	}
	if match := disabledTagLinePattern.FindStringSubmatch(document.content); match != nil {
		return match[1], true
	}
	return "", false
}

// RecordedBranch extracts the branch name from a disabled SRC_URI line left by
// a previous validation-branch update.
func (document *RecipeDocument) RecordedBranch(organization string, repository string) (string, bool) {
	recordedBranchPattern := regexp.MustCompile(fmt.Sprintf(
		recordedBranchPatternTemplateConsant,
		regexp.QuoteMeta(organization),
		regexp.QuoteMeta(repository),
	))

	for _, documentLine := range strings.Split(document.content, lineSeparatorConstant) {
		if match := recordedBranchPattern.FindStringSubmatch(documentLine); match != nil {
			return match[1], true
		}
	}
	return "", false
}

// ApplyTag rewrites the document for an official release: the GIT_TAG field is
// ensured, SRC_URI references the resolved branch with a tag placeholder, PV
// derives from the tag, and any fixed revision pin is disabled.
func (document *RecipeDocument) ApplyTag(tagName string, branchName string, organization string, repository string, componentName string) {
	if !strings.Contains(document.content, gitTagFieldMarkerConstant) {
		document.insertTagField(tagName)
	} else {
		document.content = gitTagLinePattern.ReplaceAllLiteralString(document.content, fmt.Sprintf(gitTagLineTemplateConstant, tagName))
	}

	updatedSourceURI := fmt.Sprintf(tagModeSourceURITemplateConstant, organization, repository, branchName, componentName)
	document.content = sourceURIPattern(organization, repository).ReplaceAllLiteralString(document.content, updatedSourceURI)

	if !strings.Contains(document.content, pvFieldMarkerConstant) {
		document.content = strings.Replace(document.content, updatedSourceURI, updatedSourceURI+lineSeparatorConstant+tagPlaceholderVersionLineConstant, 1)
	} else {
		document.content = versionLinePattern.ReplaceAllLiteralString(document.content, tagPlaceholderVersionLineConstant)
	}

	document.content = activeRevisionPattern.ReplaceAllLiteralString(document.content, disabledRevisionPrefixConstant)

	document.collapseBlankLines()
}

// ApplyValidationBranch rewrites the document for a validation build: GIT_TAG
// is removed, SRC_URI references the branch with no tag placeholder, and the
// always-latest revision pin replaces the tag-derived version field.
func (document *RecipeDocument) ApplyValidationBranch(branchName string, organization string, repository string, componentName string) {
	document.content = gitTagLineRemovalPattern.ReplaceAllLiteralString(document.content, "")

	updatedSourceURI := fmt.Sprintf(branchModeSourceURITemplateConstant, organization, repository, branchName, componentName)
	document.content = sourceURIPattern(organization, repository).ReplaceAllLiteralString(document.content, updatedSourceURI)

	document.content = tagVersionLinePattern.ReplaceAllLiteralString(document.content, autoRevisionLineConstant)
	document.content = disabledRevisionPattern.ReplaceAllLiteralString(document.content, srcrevFieldMarkerConstant)
	document.dropDuplicateAutoRevisionLines()

	if !strings.Contains(document.content, srcrevFieldMarkerConstant) {
		document.content = strings.Replace(document.content, updatedSourceURI, updatedSourceURI+lineSeparatorConstant+autoRevisionLineConstant, 1)
	}

	document.collapseBlankLines()
}

// insertTagField places a fresh GIT_TAG line after the license checksum field,
// or after a dependency field when no checksum line exists. Insertion is
// skipped when neither anchor is present.
func (document *RecipeDocument) insertTagField(tagName string) {
	documentLines := strings.Split(document.content, lineSeparatorConstant)

	insertionIndex := -1
	for lineIndex, documentLine := range documentLines {
		if strings.Contains(documentLine, licenseChecksumFieldMarkerConstant) {
			insertionIndex = lineIndex + 1
			break
		}
		if strings.Contains(documentLine, dependsFieldMarkerConstant) && insertionIndex == -1 {
			insertionIndex = lineIndex + 1
		}
	}

	if insertionIndex <= 0 {
		return
	}

	insertedLines := []string{"", officialReleaseCommentConstant, fmt.Sprintf(gitTagLineTemplateConstant, tagName)}
	updatedLines := make([]string, 0, len(documentLines)+len(insertedLines))
	updatedLines = append(updatedLines, documentLines[:insertionIndex]...)
	updatedLines = append(updatedLines, insertedLines...)
	updatedLines = append(updatedLines, documentLines[insertionIndex:]...)

	document.content = strings.Join(updatedLines, lineSeparatorConstant)
}

// dropDuplicateAutoRevisionLines keeps the first AUTOREV pin when converting a
// tag-mode document that carried both a placeholder PV and a disabled SRCREV.
func (document *RecipeDocument) dropDuplicateAutoRevisionLines() {
	documentLines := strings.Split(document.content, lineSeparatorConstant)

	keptLines := make([]string, 0, len(documentLines))
	autoRevisionSeen := false
	for _, documentLine := range documentLines {
		if strings.TrimSpace(documentLine) == autoRevisionLineConstant {
			if autoRevisionSeen {
				continue
			}
			autoRevisionSeen = true
		}
		keptLines = append(keptLines, documentLine)
	}

	document.content = strings.Join(keptLines, lineSeparatorConstant)
}

func (document *RecipeDocument) collapseBlankLines() {
	document.content = blankLineRunPattern.ReplaceAllLiteralString(document.content, lineSeparatorConstant+lineSeparatorConstant)
}

func sourceURIPattern(organization string, repository string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(
		sourceURIPatternTemplateConstant,
		regexp.QuoteMeta(organization),
		regexp.QuoteMeta(repository),
	))
}
