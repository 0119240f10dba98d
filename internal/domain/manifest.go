package domain

import "sort"

// ManifestTable names one of the two image tables in the manifest
type ManifestTable string

const (
	TableMain      ManifestTable = "products"
	TableAlternate ManifestTable = "alternateImages"
)

// ImageTable maps flavor -> strength -> image path
type ImageTable map[string]map[string]string

// Manifest is the derived flavor+strength -> image lookup used by the storefront.
// It can always be rebuilt from the catalog and the image directory.
type Manifest struct {
	Products        ImageTable `json:"products" yaml:"products"`
	AlternateImages ImageTable `json:"alternateImages,omitempty" yaml:"alternateImages,omitempty"`
}

// NewManifest returns an empty manifest skeleton
func NewManifest() *Manifest {
	return &Manifest{
		Products: make(ImageTable),
	}
}

// Table returns the image table for name, creating it if needed
func (m *Manifest) Table(name ManifestTable) ImageTable {
	switch name {
	case TableAlternate:
		if m.AlternateImages == nil {
			m.AlternateImages = make(ImageTable)
		}
		return m.AlternateImages
	default:
		if m.Products == nil {
			m.Products = make(ImageTable)
		}
		return m.Products
	}
}

// Set stores path under flavor/strength, creating the flavor entry if absent
func (t ImageTable) Set(flavor, strength, path string) {
	strengths, ok := t[flavor]
	if !ok {
		strengths = make(map[string]string)
		t[flavor] = strengths
	}
	strengths[strength] = path
}

// Get returns the path stored under flavor/strength
func (t ImageTable) Get(flavor, strength string) (string, bool) {
	strengths, ok := t[flavor]
	if !ok {
		return "", false
	}
	path, ok := strengths[strength]
	return path, ok
}

// HasPath reports whether any entry holds exactly path
func (t ImageTable) HasPath(path string) bool {
	for _, strengths := range t {
		for _, p := range strengths {
			if p == path {
				return true
			}
		}
	}
	return false
}

// Flavors returns the flavor keys in sorted order
func (t ImageTable) Flavors() []string {
	flavors := make([]string, 0, len(t))
	for flavor := range t {
		flavors = append(flavors, flavor)
	}
	sort.Strings(flavors)
	return flavors
}

// Strengths returns the strength keys of flavor in sorted order
func (t ImageTable) Strengths(flavor string) []string {
	strengths := make([]string, 0, len(t[flavor]))
	for strength := range t[flavor] {
		strengths = append(strengths, strength)
	}
	sort.Strings(strengths)
	return strengths
}

// Len returns the number of flavor/strength entries
func (t ImageTable) Len() int {
	n := 0
	for _, strengths := range t {
		n += len(strengths)
	}
	return n
}
