package copier

import (
	"sort"

	"al.essio.dev/pkg/shellescape"
	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/paths"
	"github.com/arthur-debert/scaffup/pkg/types"
)

// DefaultBinary is the copier executable name.
const DefaultBinary = "copier"

// Flags passed on every run: keep previous answers and accept defaults for
// new questions, so the run never prompts.
var baselineFlags = []string{"--skip-answered", "--defaults"}

// Builder assembles copier invocations for one repository.
type Builder struct {
	binary   string
	repoRoot string
}

// NewBuilder returns a Builder for the repository at repoRoot. An empty
// binary selects DefaultBinary.
func NewBuilder(binary, repoRoot string) *Builder {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Builder{binary: binary, repoRoot: repoRoot}
}

// Build returns the command that moves answersFile to version.
//
// A data file outside the repository fails with ErrPathViolation.
func (b *Builder) Build(opts types.CopierOptions, policy TrustPolicy, answersFile, version string) (types.CommandSpec, error) {
	if answersFile == "" {
		return types.CommandSpec{}, errors.New(errors.ErrCommandBuild, "answers file path is required")
	}
	if version == "" {
		return types.CommandSpec{}, errors.New(errors.ErrCommandBuild, "target version is required")
	}
	if opts.DataFile != "" {
		if _, err := paths.EnsureLocalPath(b.repoRoot, opts.DataFile); err != nil {
			return types.CommandSpec{}, err
		}
	}

	subcommand := "update"
	if opts.Recopy {
		subcommand = "recopy"
	}

	tokens := []string{shellescape.Quote(b.binary), subcommand}
	tokens = append(tokens, baselineFlags...)

	if policy.Trusted() {
		tokens = append(tokens, "--trust")
	}

	for _, f := range boolFlags {
		if boolValue(opts, f.opt) {
			tokens = append(tokens, f.flag)
		}
	}

	for _, f := range listFlags {
		for _, item := range listValue(opts, f.opt) {
			tokens = append(tokens, f.flag, shellescape.Quote(item))
		}
	}

	keys := make([]string, 0, len(opts.Data))
	for k := range opts.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tokens = append(tokens, "--data", shellescape.Quote(k+"="+opts.Data[k]))
	}

	if opts.DataFile != "" {
		tokens = append(tokens, "--data-file", shellescape.Quote(opts.DataFile))
	}

	tokens = append(tokens,
		"--answers-file", shellescape.Quote(answersFile),
		"--vcs-ref", shellescape.Quote(version),
	)

	return types.NewCommandSpec(tokens), nil
}
