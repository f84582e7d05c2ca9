// Package verify dry-runs component version updates across the registered
// recipe files, accumulating error and warning counts per check.
package verify
