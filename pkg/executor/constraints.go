package executor

import (
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/types"
)

// Tool names used in constraints.
const (
	ToolCopier = "copier"
	ToolPython = "python"
)

// ToolConstraint pins the version of one tool.
type ToolConstraint struct {
	Tool       string
	Binary     string
	Constraint string
}

// ToolConstraintsFor turns the request pins into runner constraints.
// Empty pins are dropped.
func ToolConstraintsFor(tc types.ToolConstraints, copierBinary string) []ToolConstraint {
	if copierBinary == "" {
		copierBinary = ToolCopier
	}
	var out []ToolConstraint
	if tc.Python != "" {
		out = append(out, ToolConstraint{Tool: ToolPython, Binary: "python3", Constraint: tc.Python})
	}
	if tc.Copier != "" {
		out = append(out, ToolConstraint{Tool: ToolCopier, Binary: copierBinary, Constraint: tc.Copier})
	}
	return out
}

// VersionProber reports the installed version of a tool.
type VersionProber interface {
	Version(ctx context.Context, dir, binary string) (string, error)
}

// ExecProber runs `<binary> --version` and extracts the first version
// number from its output.
type ExecProber struct{}

// NewExecProber creates a prober that shells out to the tool.
func NewExecProber() *ExecProber {
	return &ExecProber{}
}

// Version implements VersionProber.
func (p *ExecProber) Version(ctx context.Context, dir, binary string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, "--version")
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrExecution,
			"%s --version failed: %s", binary, strings.TrimSpace(string(out)))
	}
	return ParseToolVersion(string(out))
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

// ParseToolVersion extracts the first X.Y[.Z] version from tool output such
// as "copier 9.1.0" or "Python 3.12.1".
func ParseToolVersion(output string) (string, error) {
	v := versionPattern.FindString(output)
	if v == "" {
		return "", errors.Newf(errors.ErrConstraint,
			"no version found in %q", strings.TrimSpace(output))
	}
	return v, nil
}

// CheckConstraints verifies every constraint against the installed tools.
func CheckConstraints(ctx context.Context, prober VersionProber, dir string, constraints []ToolConstraint) error {
	for _, tc := range constraints {
		if tc.Constraint == "" {
			continue
		}
		c, err := semver.NewConstraint(tc.Constraint)
		if err != nil {
			return errors.Wrapf(err, errors.ErrConstraint,
				"invalid %s constraint %q", tc.Tool, tc.Constraint)
		}

		raw, err := prober.Version(ctx, dir, tc.Binary)
		if err != nil {
			return errors.Wrapf(err, errors.ErrConstraint,
				"cannot determine %s version: %s", tc.Tool, errors.Diagnostic(err))
		}
		v, err := semver.NewVersion(raw)
		if err != nil {
			return errors.Wrapf(err, errors.ErrConstraint,
				"invalid %s version %q", tc.Tool, raw)
		}

		if !c.Check(v) {
			return errors.Newf(errors.ErrConstraint,
				"%s %s does not satisfy constraint %s", tc.Tool, v, tc.Constraint).
				WithDetail("tool", tc.Tool).
				WithDetail("version", v.String())
		}
	}
	return nil
}
