// Package update points recipe files at new upstream component versions.
//
// It classifies version specifiers into release tags and validation branches,
// resolves the release branch containing a tag through a three-tier fallback
// chain, and rewrites the recipe's GIT_TAG, SRC_URI, PV, and SRCREV fields
// consistently for either mode.
package update
