package usecase

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/pouchpalace/backend/internal/domain"
)

// RebuildManifest reconstructs the manifest main table from the catalog and
// the directory listing. Each catalog product whose identity key has a
// conforming file on disk gets products[normalized flavor][strength] set to
// that file. The alternate table of base is carried over untouched; base
// itself is not modified.
func RebuildManifest(catalog *domain.Catalog, files []string, base *domain.Manifest, imageURLPrefix string) *domain.ManifestRebuild {
	manifest := cloneManifest(base)
	rebuild := &domain.ManifestRebuild{Manifest: manifest}

	byKey := conformingFilesByKey(files)

	seenUnmatched := make(map[string]bool)
	if catalog != nil {
		for _, product := range catalog.Products {
			if strings.TrimSpace(product.Flavor) == "" {
				continue
			}
			strength := StrengthLabel(product.Strength)
			key := ProductKey(product.Flavor, strength)

			filename, ok := byKey[key]
			if !ok {
				if !seenUnmatched[key] {
					seenUnmatched[key] = true
					rebuild.Unmatched = append(rebuild.Unmatched, key)
				}
				continue
			}

			var imagePath string
			if imageURLPrefix != "" {
				imagePath = strings.TrimSuffix(imageURLPrefix, "/") + "/" + filename
			} else {
				imagePath = joinImagePath(product.ImageURL, filename, "")
			}

			flavor := Normalize(product.Flavor)
			existing, exists := manifest.Products.Get(flavor, strength)
			switch {
			case !exists:
				rebuild.Added++
			case existing != imagePath:
				rebuild.Changed++
			default:
				continue
			}
			manifest.Products.Set(flavor, strength, imagePath)
		}
	}

	sort.Strings(rebuild.Unmatched)
	return rebuild
}

// conformingFilesByKey maps identity keys to conforming filenames. When two
// files share a key (different extensions) the first in sorted order wins.
func conformingFilesByKey(files []string) map[string]string {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	byKey := make(map[string]string, len(sorted))
	for _, name := range sorted {
		if !IsConforming(name) {
			continue
		}
		key := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		if _, taken := byKey[key]; !taken {
			byKey[key] = name
		}
	}
	return byKey
}

// cloneManifest deep-copies m, returning an empty skeleton for nil
func cloneManifest(m *domain.Manifest) *domain.Manifest {
	clone := domain.NewManifest()
	if m == nil {
		return clone
	}
	copyTable(clone.Products, m.Products)
	if m.AlternateImages != nil {
		copyTable(clone.Table(domain.TableAlternate), m.AlternateImages)
	}
	return clone
}

func copyTable(dst, src domain.ImageTable) {
	for flavor, strengths := range src {
		for strength, p := range strengths {
			dst.Set(flavor, strength, p)
		}
	}
}
