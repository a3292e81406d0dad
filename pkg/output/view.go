package output

import (
	"encoding/base64"
	"unicode/utf8"

	"github.com/arthur-debert/scaffup/pkg/types"
)

// EncodingBase64 marks file contents that are not valid UTF-8.
const EncodingBase64 = "base64"

// ResultView is the JSON shape of an ArtifactResult.
type ResultView struct {
	Status    string         `json:"status"`
	Artifacts []ArtifactView `json:"artifacts"`
}

// ArtifactView is the JSON shape of one artifact.
type ArtifactView struct {
	File          *FileView            `json:"file,omitempty"`
	Notice        *types.Notice        `json:"notice,omitempty"`
	ArtifactError *types.ArtifactError `json:"artifactError,omitempty"`
}

// FileView is the JSON shape of a file change.
type FileView struct {
	Type     types.FileChangeType `json:"type"`
	Path     string               `json:"path"`
	Contents *string              `json:"contents,omitempty"`
	Encoding string               `json:"encoding,omitempty"`
}

// DependencyView is the JSON shape of an extracted dependency.
type DependencyView struct {
	AnswersFile  string `json:"answersFile"`
	DepName      string `json:"depName"`
	PackageName  string `json:"packageName"`
	CurrentValue string `json:"currentValue"`
	Datasource   string `json:"datasource"`
	SkipReason   string `json:"skipReason,omitempty"`
}

// NewResultView converts res to its JSON shape.
func NewResultView(res types.ArtifactResult) ResultView {
	view := ResultView{
		Status:    res.Kind().String(),
		Artifacts: []ArtifactView{},
	}
	for _, a := range res.Artifacts() {
		view.Artifacts = append(view.Artifacts, ArtifactView{
			File:          newFileView(a.File),
			Notice:        a.Notice,
			ArtifactError: a.ArtifactError,
		})
	}
	return view
}

func newFileView(f *types.FileChange) *FileView {
	if f == nil {
		return nil
	}
	view := &FileView{Type: f.Type, Path: f.Path}
	if f.Type == types.FileDeletion {
		return view
	}

	contents := string(f.Contents)
	if !utf8.Valid(f.Contents) {
		contents = base64.StdEncoding.EncodeToString(f.Contents)
		view.Encoding = EncodingBase64
	}
	view.Contents = &contents
	return view
}

// NewDependencyViews converts deps to their JSON shape.
func NewDependencyViews(deps []types.PackageDependency) []DependencyView {
	views := make([]DependencyView, 0, len(deps))
	for _, d := range deps {
		views = append(views, DependencyView{
			AnswersFile:  d.AnswersFile,
			DepName:      d.DepName,
			PackageName:  d.PackageName,
			CurrentValue: d.CurrentValue,
			Datasource:   d.Datasource,
			SkipReason:   d.SkipReason,
		})
	}
	return views
}
