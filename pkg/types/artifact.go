package types

// FileChangeType tells additions from deletions.
type FileChangeType string

const (
	FileAddition FileChangeType = "addition"
	FileDeletion FileChangeType = "deletion"
)

// FileChange is a single file-level change. Deletions carry no contents.
type FileChange struct {
	Type     FileChangeType
	Path     string
	Contents []byte
}

// NewAddition returns an addition record for path with the given contents.
func NewAddition(path string, contents []byte) *FileChange {
	return &FileChange{Type: FileAddition, Path: path, Contents: contents}
}

// NewDeletion returns a deletion record for path.
func NewDeletion(path string) *FileChange {
	return &FileChange{Type: FileDeletion, Path: path}
}

// Notice is an advisory attached to a file change for the reviewer.
type Notice struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// ArtifactError is the failure shape surfaced when no file changes can be
// produced.
type ArtifactError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// UpdateArtifact is one element of a result: a file change with an optional
// notice, or an artifact error.
type UpdateArtifact struct {
	File          *FileChange
	Notice        *Notice
	ArtifactError *ArtifactError
}

// ResultKind discriminates the variants of ArtifactResult.
type ResultKind int

const (
	// ResultNoChange means copier left the template instance untouched.
	ResultNoChange ResultKind = iota
	// ResultChanged means the artifacts hold the change set.
	ResultChanged
	// ResultError means the artifacts hold a single artifact error.
	ResultError
)

// String returns the string representation of the kind
func (k ResultKind) String() string {
	switch k {
	case ResultNoChange:
		return "no-change"
	case ResultChanged:
		return "changed"
	case ResultError:
		return "error"
	default:
		return "unknown"
	}
}

// ArtifactResult is the outcome of an update. The zero value is the
// no-change marker.
type ArtifactResult struct {
	kind      ResultKind
	artifacts []UpdateArtifact
}

// NoChange returns the "nothing happened" marker.
func NoChange() ArtifactResult {
	return ArtifactResult{kind: ResultNoChange}
}

// Changed wraps an ordered change set. An empty set is still a change
// result, distinct from NoChange.
func Changed(artifacts []UpdateArtifact) ArtifactResult {
	if artifacts == nil {
		artifacts = []UpdateArtifact{}
	}
	return ArtifactResult{kind: ResultChanged, artifacts: artifacts}
}

// Failure returns a one-element result carrying an artifact error.
func Failure(file, message string) ArtifactResult {
	return ArtifactResult{
		kind: ResultError,
		artifacts: []UpdateArtifact{
			{ArtifactError: &ArtifactError{File: file, Message: message}},
		},
	}
}

// Kind returns the variant of the result.
func (r ArtifactResult) Kind() ResultKind {
	return r.kind
}

// IsNoChange reports whether r is the no-change marker.
func (r ArtifactResult) IsNoChange() bool {
	return r.kind == ResultNoChange
}

// Artifacts returns the ordered artifacts. It is nil for NoChange.
func (r ArtifactResult) Artifacts() []UpdateArtifact {
	return r.artifacts
}

// Err returns the artifact error of a failed result, or nil.
func (r ArtifactResult) Err() *ArtifactError {
	if r.kind != ResultError || len(r.artifacts) == 0 {
		return nil
	}
	return r.artifacts[0].ArtifactError
}
