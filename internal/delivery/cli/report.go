// Package cli renders reconcile results for terminal output.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pouchpalace/backend/internal/domain"
)

// Format is an output format for reports
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (use text, json or yaml)", s)
	}
}

// reportDocument is the structured form of a report, with counts up front
type reportDocument struct {
	Summary domain.ReportSummary `json:"summary" yaml:"summary"`
	Report  *domain.Report       `json:"report" yaml:"report"`
}

// RenderReport writes report to w in format
func RenderReport(w io.Writer, report *domain.Report, format Format) error {
	switch format {
	case FormatJSON, FormatYAML:
		return Encode(w, reportDocument{Summary: report.Summary(), Report: report}, format)
	default:
		return renderText(w, report)
	}
}

// Encode writes any value as JSON or YAML
func Encode(w io.Writer, v interface{}, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func renderText(w io.Writer, r *domain.Report) error {
	p := &printer{w: w}
	s := r.Summary()

	p.printf("Image reconcile report (%s) run %s\n", r.Mode, r.RunID)
	p.printf("  consistent:   %d\n", s.Consistent)
	p.printf("  inconsistent: %d\n", s.Inconsistent)
	p.printf("  missing:      %d\n", s.Missing)
	p.printf("  unmapped:     %d\n", s.Unmapped)
	if r.Mode == domain.ModeApply {
		p.printf("  renamed:      %d\n", s.Applied)
		p.printf("  failed:       %d\n", s.Failed)
		p.printf("  manifest:     %s\n", updatedLabel(r.ManifestUpdated))
	}

	p.section("Consistent", len(r.Consistent))
	for _, e := range r.Consistent {
		p.printf("  %s\n", e.Filename)
	}

	p.section("Inconsistent", len(r.Inconsistent))
	for _, e := range r.Inconsistent {
		target := e.ProposedName
		if target == "" {
			target = "(no proposed name)"
		}
		p.printf("  %s -> %s  [%s]\n", e.Filename, target, sourceLabel(e.Reference))
	}

	p.section("Missing", len(r.Missing))
	for _, e := range r.Missing {
		if e.Reference != nil {
			p.printf("  %s  (%s, %s)\n", e.Filename, e.Reference.ExpectedPath, e.Reference.Source)
		} else {
			p.printf("  %s\n", e.Filename)
		}
	}

	p.section("Unmapped", len(r.Unmapped))
	for _, e := range r.Unmapped {
		p.printf("  %s  (%s)\n", e.Filename, e.Reason)
	}

	if r.Mode == domain.ModeApply {
		p.section("Applied", len(r.Applied))
		for _, a := range r.Applied {
			p.printf("  %s -> %s  [%s]\n", a.From, a.To, a.Table)
		}
		if len(r.Failed) > 0 {
			p.section("Failed", len(r.Failed))
			for _, f := range r.Failed {
				p.printf("  %s -> %s: %s\n", f.From, f.To, f.Error)
			}
		}
	}

	if len(r.Warnings) > 0 {
		p.section("Warnings", len(r.Warnings))
		for _, warning := range r.Warnings {
			p.printf("  %s\n", warning)
		}
	}
	if len(r.Errors) > 0 {
		p.section("Errors", len(r.Errors))
		for _, e := range r.Errors {
			p.printf("  %s\n", e)
		}
	}

	return p.err
}

// printer remembers the first write error so callers check once
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) section(title string, n int) {
	p.printf("\n%s (%d)\n", title, n)
}

func sourceLabel(ref *domain.Reference) string {
	if ref == nil {
		return "unreferenced"
	}
	return string(ref.Source)
}

func updatedLabel(updated bool) string {
	if updated {
		return "updated"
	}
	return "unchanged"
}
