// Package components holds the static mapping between component repositories
// and the recipe files that reference them.
package components
