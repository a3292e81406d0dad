package answers

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/types"
	"gopkg.in/yaml.v3"
)

// DefaultPattern matches the answers-file names Copier uses out of the
// box, at any depth.
const DefaultPattern = `(^|/)\.copier-answers(\..+)?\.ya?ml$`

// Datasource is the version source of every extracted dependency.
const Datasource = "git-tags"

// SkipLocalTemplate marks templates referenced by a filesystem path.
const SkipLocalTemplate = "local-template"

// record holds the answers-file keys scaffup reads. Template questions are
// ignored.
type record struct {
	SrcPath string `yaml:"_src_path"`
	Commit  string `yaml:"_commit"`
}

// Matcher decides whether a repository-relative path is an answers file.
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher compiles pattern. An empty pattern selects DefaultPattern.
func NewMatcher(pattern string) (*Matcher, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid answers file pattern %q", pattern).
			WithDetail("pattern", pattern)
	}
	return &Matcher{re: re}, nil
}

// Match reports whether path, with forward slashes, names an answers file.
func (m *Matcher) Match(path string) bool {
	return m.re.MatchString(path)
}

// Extract parses the answers file at path and returns the template
// reference it records.
func Extract(path string, content []byte) (types.PackageDependency, error) {
	var rec record
	if err := yaml.Unmarshal(content, &rec); err != nil {
		return types.PackageDependency{}, errors.Wrapf(err, errors.ErrAnswersParse,
			"cannot parse answers file %s", path).WithDetail("path", path)
	}

	src := strings.TrimSpace(rec.SrcPath)
	if src == "" {
		return types.PackageDependency{}, errors.Newf(errors.ErrAnswersParse,
			"answers file %s has no _src_path", path).WithDetail("path", path)
	}
	commit := strings.TrimSpace(rec.Commit)
	if commit == "" {
		return types.PackageDependency{}, errors.Newf(errors.ErrAnswersParse,
			"answers file %s has no _commit", path).WithDetail("path", path)
	}

	dep := types.PackageDependency{
		AnswersFile:  path,
		DepName:      src,
		PackageName:  src,
		CurrentValue: commit,
		Datasource:   Datasource,
	}
	if isLocalSource(src) {
		dep.SkipReason = SkipLocalTemplate
	}
	return dep, nil
}

func isLocalSource(src string) bool {
	return src == "~" || src == "." || src == ".." ||
		strings.HasPrefix(src, "/") ||
		strings.HasPrefix(src, "./") ||
		strings.HasPrefix(src, "../") ||
		strings.HasPrefix(src, "~/")
}
