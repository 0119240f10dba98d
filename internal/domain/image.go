package domain

import (
	"path/filepath"
	"strings"
)

// imageExtensions is the allow-list of product image extensions (lowercase, with leading dot)
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".svg":  true,
	".webp": true,
}

// IsImageFile reports whether name carries an allowed image extension (case-insensitive)
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}
