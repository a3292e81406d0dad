// Package executor runs assembled copier commands.
//
// ShellRunner hands the command string to a shell in the repository root,
// overlays the configured environment, and checks tool version
// constraints before running. A failed run is reported as an ErrExecution
// error whose message is the tool's own diagnostic output.
package executor
