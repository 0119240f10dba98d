package usecase

import (
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	whitespaceRunRegex = regexp.MustCompile(`\s+`)

	// <flavor-token>-<strength>mg.<ext>
	conformingNameRegex = regexp.MustCompile(`(?i)^[\w-]+-\d+mg\.(jpg|jpeg|png|gif|svg|webp)$`)
)

// Normalize lowercases s and replaces whitespace runs with a single hyphen.
// "Apple Mint" -> "apple-mint"
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return whitespaceRunRegex.ReplaceAllString(s, "-")
}

// ProductKey derives the identity key of a flavor/strength pair, e.g. "cherry-6mg"
func ProductKey(flavor, strength string) string {
	return Normalize(flavor) + "-" + strings.TrimSpace(strength) + "mg"
}

// StrengthLabel formats a catalog strength the way the manifest keys it
func StrengthLabel(strength int) string {
	return strconv.Itoa(strength)
}

// IsConforming reports whether name follows the <flavor>-<strength>mg.<ext> convention
func IsConforming(name string) bool {
	return conformingNameRegex.MatchString(name)
}

// ProposedName builds the conforming filename for a reference, keeping the
// extension of original exactly as written.
// ("Apple Mint", "16", "AppleMint16.JPG") -> "apple-mint-16mg.JPG"
func ProposedName(flavor, strength, original string) string {
	return ProductKey(flavor, strength) + filepath.Ext(original)
}

// imageFilename extracts the bare filename from an image URL or path
func imageFilename(imagePath string) string {
	p := strings.TrimSpace(imagePath)
	if idx := strings.IndexAny(p, "?#"); idx >= 0 {
		p = p[:idx]
	}
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" || strings.HasSuffix(p, "/") {
		return ""
	}
	return path.Base(p)
}

// joinImagePath places filename in the directory of oldPath. When oldPath has
// no directory the fallback prefix is used instead.
func joinImagePath(oldPath, filename, fallbackPrefix string) string {
	p := strings.ReplaceAll(strings.TrimSpace(oldPath), "\\", "/")
	if idx := strings.IndexAny(p, "?#"); idx >= 0 {
		p = p[:idx]
	}
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		return p[:idx+1] + filename
	}
	if fallbackPrefix == "" {
		return filename
	}
	return strings.TrimSuffix(fallbackPrefix, "/") + "/" + filename
}
