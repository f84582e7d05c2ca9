// Package githubauth resolves GitHub API tokens from the environment.
package githubauth
