// Package cli assembles the bbump command-line application.
//
// It wires the Cobra root command with the configuration loader, structured
// logging, and the update and verify subcommands.
package cli
