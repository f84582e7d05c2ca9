package update

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	tagPrefixConstant                       = "v"
	validationBranchPrefixConstant          = "releases/"
	validationBranchSuffixConstant          = "-main"
	invalidSpecifierMessageTemplateConstant = "invalid version specifier %q: expected a release tag (v1.3.0) or validation branch (releases/1.3.0-main)"
	fallbackBranchTemplateConstant          = "releases/%d.%d.0-main"
	majorMinorBranchGuessTemplateConstant   = "releases/%d.%d.0-main"
	fullVersionBranchGuessTemplateConstant  = "releases/%s-main"
	shortBranchGuessTemplateConstant        = "releases/%d.%d-main"
	legacyMajorMinorGuessTemplateConstant   = "release-%d.%d"
	legacyFullVersionGuessTemplateConstant  = "release-%s"
)

// SpecifierKind distinguishes release tags from validation branches.
type SpecifierKind string

// Specifier kind enumerations.
const (
	SpecifierKindTag              SpecifierKind = "tag"
	SpecifierKindValidationBranch SpecifierKind = "branch"
)

// InvalidSpecifierError reports a version specifier matching neither accepted format.
type InvalidSpecifierError struct {
	Value string
}

// Error describes the malformed specifier.
func (specifierError InvalidSpecifierError) Error() string {
	return fmt.Sprintf(invalidSpecifierMessageTemplateConstant, specifierError.Value)
}

// VersionSpecifier is the tagged union of a release tag and a validation branch.
type VersionSpecifier struct {
	Kind    SpecifierKind
	Value   string
	version *semver.Version
}

// ParseVersionSpecifier classifies a raw version string. The two accepted
// forms are mutually exclusive; anything else is rejected before any I/O.
func ParseVersionSpecifier(rawValue string) (VersionSpecifier, error) {
	trimmedValue := strings.TrimSpace(rawValue)

	if strings.HasPrefix(trimmedValue, tagPrefixConstant) {
		parsedVersion, parseError := semver.StrictNewVersion(strings.TrimPrefix(trimmedValue, tagPrefixConstant))
		if parseError == nil {
			return VersionSpecifier{Kind: SpecifierKindTag, Value: trimmedValue, version: parsedVersion}, nil
		}
	}

	if strings.HasPrefix(trimmedValue, validationBranchPrefixConstant) && strings.HasSuffix(trimmedValue, validationBranchSuffixConstant) {
		return VersionSpecifier{Kind: SpecifierKindValidationBranch, Value: trimmedValue}, nil
	}

	return VersionSpecifier{}, InvalidSpecifierError{Value: trimmedValue}
}

// IsTag reports whether the specifier names a release tag.
func (specifier VersionSpecifier) IsTag() bool {
	return specifier.Kind == SpecifierKindTag
}

// BranchGuesses returns the ordered naming-convention candidates probed when
// commit-ancestry resolution fails. Only meaningful for tag specifiers.
func (specifier VersionSpecifier) BranchGuesses() []string {
	if specifier.version == nil {
		return nil
	}

	bareVersion := strings.TrimPrefix(specifier.Value, tagPrefixConstant)
	majorComponent := specifier.version.Major()
	minorComponent := specifier.version.Minor()

	return []string{
		fmt.Sprintf(majorMinorBranchGuessTemplateConstant, majorComponent, minorComponent),
		fmt.Sprintf(fullVersionBranchGuessTemplateConstant, bareVersion),
		fmt.Sprintf(shortBranchGuessTemplateConstant, majorComponent, minorComponent),
		fmt.Sprintf(legacyMajorMinorGuessTemplateConstant, majorComponent, minorComponent),
		fmt.Sprintf(legacyFullVersionGuessTemplateConstant, bareVersion),
	}
}

// FallbackBranch synthesizes the unconditional last-resort branch name for a
// tag, with no existence check.
func (specifier VersionSpecifier) FallbackBranch() string {
	if specifier.version == nil {
		return specifier.Value
	}
	return fmt.Sprintf(fallbackBranchTemplateConstant, specifier.version.Major(), specifier.version.Minor())
}
