// Package githubapi wraps the GitHub REST API lookups needed to locate the
// release branch containing a tag.
//
// It exposes Client with read-only operations for tag resolution, branch
// listing, branch existence checks, and ref comparison, built on
// google/go-github with optional token authentication.
package githubapi
