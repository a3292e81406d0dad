// Package types defines the data passed between scaffup's components:
// the update request and its configuration bag, the command spec handed to
// the process runner, the status delta read back from git, and the tagged
// ArtifactResult that is scaffup's only output.
package types
