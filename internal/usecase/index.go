package usecase

import (
	"strings"

	"github.com/pouchpalace/backend/internal/domain"
)

// BuildReferenceIndex maps every image filename named by the catalog or the
// manifest to the product it should depict.
//
// Insertion order is catalog, then manifest main table, then manifest
// alternate table. A later insertion overwrites an earlier one for the same
// filename, so alternate references claim a file over main and catalog ones.
func BuildReferenceIndex(catalog *domain.Catalog, manifest *domain.Manifest) domain.ReferenceIndex {
	index := make(domain.ReferenceIndex)

	if catalog != nil {
		for _, product := range catalog.Products {
			filename := imageFilename(product.ImageURL)
			if filename == "" {
				continue
			}
			strength := StrengthLabel(product.Strength)
			index[filename] = domain.Reference{
				Source:       domain.SourceCatalog,
				ExpectedPath: product.ImageURL,
				ProductKey:   ProductKey(product.Flavor, strength),
				Flavor:       product.Flavor,
				Strength:     strength,
			}
		}
	}

	if manifest != nil {
		indexTable(index, manifest.Products, domain.SourceManifestMain)
		indexTable(index, manifest.AlternateImages, domain.SourceManifestAlternate)
	}

	return index
}

// indexTable inserts every entry of table into index, in sorted key order
func indexTable(index domain.ReferenceIndex, table domain.ImageTable, source domain.ReferenceSource) {
	for _, flavor := range table.Flavors() {
		for _, strength := range table.Strengths(flavor) {
			imagePath := table[flavor][strength]
			filename := imageFilename(imagePath)
			if filename == "" {
				continue
			}
			strength = strings.TrimSpace(strength)
			index[filename] = domain.Reference{
				Source:       source,
				ExpectedPath: imagePath,
				ProductKey:   ProductKey(flavor, strength),
				Flavor:       flavor,
				Strength:     strength,
			}
		}
	}
}

// WithoutExcluded drops references to filenames the image store never lists,
// so a referenced banner or logo is not reported as missing.
func WithoutExcluded(index domain.ReferenceIndex, excluded func(string) bool) domain.ReferenceIndex {
	if excluded == nil {
		return index
	}
	kept := make(domain.ReferenceIndex, len(index))
	for filename, ref := range index {
		if !excluded(filename) {
			kept[filename] = ref
		}
	}
	return kept
}
