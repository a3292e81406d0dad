package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/types"
	"github.com/charmbracelet/lipgloss"
)

// Renderer writes results in one output format.
type Renderer interface {
	RenderResult(res types.ArtifactResult) error
	RenderDependencies(deps []types.PackageDependency) error
	RenderMessage(msg string) error
	RenderError(err error) error
}

// New returns the renderer for format. FormatAuto must be resolved first;
// it falls back to plain text.
func New(format Format, w io.Writer) Renderer {
	switch format {
	case FormatJSON:
		return newJSONRenderer(w)
	case FormatTerminal:
		return &textRenderer{w: w, styled: true}
	default:
		return &textRenderer{w: w}
	}
}

// textRenderer writes human-readable output, styled or plain.
type textRenderer struct {
	w      io.Writer
	styled bool
}

func (r *textRenderer) paint(style lipgloss.Style, s string) string {
	if !r.styled {
		return s
	}
	return style.Render(s)
}

func (r *textRenderer) RenderResult(res types.ArtifactResult) error {
	switch res.Kind() {
	case types.ResultNoChange:
		return r.line(r.paint(MutedStyle, "No changes"))
	case types.ResultError:
		e := res.Err()
		if e == nil {
			return r.line(r.paint(ErrorStyle, "Update failed"))
		}
		return r.line(fmt.Sprintf("%s %s: %s",
			r.paint(ErrorStyle, "Update failed"), r.paint(PathStyle, e.File), e.Message))
	}

	artifacts := res.Artifacts()
	if err := r.line(r.paint(TitleStyle, fmt.Sprintf("%d file changes", len(artifacts)))); err != nil {
		return err
	}
	for _, a := range artifacts {
		if a.File == nil {
			continue
		}
		marker := r.paint(AdditionStyle, "A")
		if a.File.Type == types.FileDeletion {
			marker = r.paint(DeletionStyle, "D")
		}
		if err := r.line(fmt.Sprintf("  %s %s", marker, a.File.Path)); err != nil {
			return err
		}
		if a.Notice != nil {
			if err := r.line(fmt.Sprintf("    %s %s", r.paint(WarningStyle, "!"), a.Notice.Message)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *textRenderer) RenderDependencies(deps []types.PackageDependency) error {
	if len(deps) == 0 {
		return r.line(r.paint(MutedStyle, "No answers files found"))
	}
	for _, d := range deps {
		text := fmt.Sprintf("%s %s %s",
			r.paint(PathStyle, d.AnswersFile), d.DepName, r.paint(TitleStyle, d.CurrentValue))
		if !d.Updatable() {
			text += " " + r.paint(MutedStyle, "(skipped: "+d.SkipReason+")")
		}
		if err := r.line(text); err != nil {
			return err
		}
	}
	return nil
}

func (r *textRenderer) RenderMessage(msg string) error {
	return r.line(msg)
}

func (r *textRenderer) RenderError(err error) error {
	return r.line(r.paint(ErrorStyle, "Error:") + " " + errors.Diagnostic(err))
}

func (r *textRenderer) line(s string) error {
	_, err := fmt.Fprintln(r.w, s)
	return err
}

// jsonRenderer provides JSON output for machine consumption
type jsonRenderer struct {
	encoder *json.Encoder
}

func newJSONRenderer(w io.Writer) *jsonRenderer {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return &jsonRenderer{encoder: encoder}
}

func (r *jsonRenderer) RenderResult(res types.ArtifactResult) error {
	return r.encoder.Encode(NewResultView(res))
}

func (r *jsonRenderer) RenderDependencies(deps []types.PackageDependency) error {
	return r.encoder.Encode(map[string]interface{}{
		"dependencies": NewDependencyViews(deps),
	})
}

func (r *jsonRenderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}

func (r *jsonRenderer) RenderError(err error) error {
	obj := map[string]interface{}{"error": errors.Diagnostic(err)}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		obj["code"] = string(code)
	}
	if details := errors.GetErrorDetails(err); len(details) > 0 {
		obj["details"] = details
	}
	return r.encoder.Encode(obj)
}
