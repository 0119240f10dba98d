package usecase

import (
	"sort"

	"github.com/pouchpalace/backend/internal/domain"
)

// Classify sorts every listed file into consistent, inconsistent or unmapped,
// then reports each indexed filename that was not listed as missing.
// It performs no I/O.
//
// Per file, first match wins:
//
//	conforming, referenced      -> consistent
//	conforming, unreferenced    -> unmapped (orphan)
//	nonconforming, referenced   -> inconsistent, with a proposed name
//	nonconforming, unreferenced -> unmapped (unrecognized)
func Classify(files []string, index domain.ReferenceIndex) domain.Classification {
	result := domain.Classification{
		Consistent:   []domain.ImageEntry{},
		Inconsistent: []domain.ImageEntry{},
		Missing:      []domain.ImageEntry{},
		Unmapped:     []domain.ImageEntry{},
	}

	listed := make(map[string]bool, len(files))
	for _, name := range files {
		if listed[name] {
			continue
		}
		listed[name] = true

		conforms := IsConforming(name)
		ref, referenced := index[name]

		switch {
		case conforms && referenced:
			result.Consistent = append(result.Consistent, domain.ImageEntry{
				Filename:  name,
				Reference: &ref,
			})
		case conforms:
			result.Unmapped = append(result.Unmapped, domain.ImageEntry{
				Filename: name,
				Reason:   domain.ReasonOrphan,
			})
		case referenced:
			entry := domain.ImageEntry{
				Filename:  name,
				Reference: &ref,
			}
			// a flavor that normalizes to the same odd name has nothing to rename to
			if proposed := ProposedName(ref.Flavor, ref.Strength, name); proposed != name {
				entry.ProposedName = proposed
			}
			result.Inconsistent = append(result.Inconsistent, entry)
		default:
			result.Unmapped = append(result.Unmapped, domain.ImageEntry{
				Filename: name,
				Reason:   domain.ReasonUnrecognized,
			})
		}
	}

	missing := make([]string, 0)
	for filename := range index {
		if !listed[filename] {
			missing = append(missing, filename)
		}
	}
	sort.Strings(missing)
	for _, filename := range missing {
		ref := index[filename]
		result.Missing = append(result.Missing, domain.ImageEntry{
			Filename:  filename,
			Reference: &ref,
		})
	}

	return result
}
