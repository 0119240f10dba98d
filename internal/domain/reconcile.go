package domain

import "time"

// ReferenceSource says where an image reference came from.
// Later sources take precedence when they name the same file.
type ReferenceSource string

const (
	SourceCatalog           ReferenceSource = "catalog"
	SourceManifestMain      ReferenceSource = "manifest-main"
	SourceManifestAlternate ReferenceSource = "manifest-alternate"
)

// Reference describes the product an image filename is expected to depict
type Reference struct {
	Source       ReferenceSource `json:"source" yaml:"source"`
	ExpectedPath string          `json:"expectedPath" yaml:"expectedPath"`
	ProductKey   string          `json:"productKey" yaml:"productKey"`
	Flavor       string          `json:"flavor" yaml:"flavor"`
	Strength     string          `json:"strength" yaml:"strength"`
}

// ReferenceIndex maps a bare image filename to its reference
type ReferenceIndex map[string]Reference

// UnmappedReason explains why a file on disk has no usable reference
type UnmappedReason string

const (
	// ReasonOrphan marks a well-named file nothing refers to
	ReasonOrphan UnmappedReason = "orphan"
	// ReasonUnrecognized marks a misnamed file nothing refers to
	ReasonUnrecognized UnmappedReason = "unrecognized"
)

// ImageEntry is one classified filename
type ImageEntry struct {
	Filename     string         `json:"filename" yaml:"filename"`
	Reference    *Reference     `json:"reference,omitempty" yaml:"reference,omitempty"`
	ProposedName string         `json:"proposedName,omitempty" yaml:"proposedName,omitempty"`
	Reason       UnmappedReason `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Classification holds the four reconcile buckets
type Classification struct {
	Consistent   []ImageEntry `json:"consistent" yaml:"consistent"`
	Inconsistent []ImageEntry `json:"inconsistent" yaml:"inconsistent"`
	Missing      []ImageEntry `json:"missing" yaml:"missing"`
	Unmapped     []ImageEntry `json:"unmapped" yaml:"unmapped"`
}

// Rename is a rename that was applied on disk
type Rename struct {
	From  string        `json:"from" yaml:"from"`
	To    string        `json:"to" yaml:"to"`
	Table ManifestTable `json:"table" yaml:"table"`
	Path  string        `json:"path" yaml:"path"`
}

// RenameFailure is a rename that was attempted and failed
type RenameFailure struct {
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Error string `json:"error" yaml:"error"`
}

// RunMode selects report-only or fix behavior
type RunMode string

const (
	ModeDryRun RunMode = "dry-run"
	ModeApply  RunMode = "apply"
)

// Report is the end-of-run result of a reconcile run
type Report struct {
	RunID      string    `json:"runId" yaml:"runId"`
	Mode       RunMode   `json:"mode" yaml:"mode"`
	StartedAt  time.Time `json:"startedAt" yaml:"startedAt"`
	FinishedAt time.Time `json:"finishedAt" yaml:"finishedAt"`

	Classification `yaml:",inline"`

	Applied         []Rename        `json:"applied,omitempty" yaml:"applied,omitempty"`
	Failed          []RenameFailure `json:"failed,omitempty" yaml:"failed,omitempty"`
	ManifestUpdated bool            `json:"manifestUpdated" yaml:"manifestUpdated"`

	// Warnings are degraded-input conditions; the run still completed
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	// Errors are run-level failures found after the fact, e.g. renames applied but manifest not persisted
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ReportSummary holds the per-bucket counts of a report
type ReportSummary struct {
	Consistent   int `json:"consistent" yaml:"consistent"`
	Inconsistent int `json:"inconsistent" yaml:"inconsistent"`
	Missing      int `json:"missing" yaml:"missing"`
	Unmapped     int `json:"unmapped" yaml:"unmapped"`
	Applied      int `json:"applied" yaml:"applied"`
	Failed       int `json:"failed" yaml:"failed"`
}

// Summary counts the entries of each bucket
func (r *Report) Summary() ReportSummary {
	return ReportSummary{
		Consistent:   len(r.Consistent),
		Inconsistent: len(r.Inconsistent),
		Missing:      len(r.Missing),
		Unmapped:     len(r.Unmapped),
		Applied:      len(r.Applied),
		Failed:       len(r.Failed),
	}
}

// ManifestRebuild is the result of reconstructing the manifest from catalog and directory
type ManifestRebuild struct {
	Manifest  *Manifest `json:"manifest" yaml:"manifest"`
	Added     int       `json:"added" yaml:"added"`
	Changed   int       `json:"changed" yaml:"changed"`
	Unmatched []string  `json:"unmatched,omitempty" yaml:"unmatched,omitempty"`
	Persisted bool      `json:"persisted" yaml:"persisted"`
	Warnings  []string  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}
