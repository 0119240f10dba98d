package domain

import "errors"

var (
	// ErrImageDirUnavailable is returned when the image directory cannot be listed; fatal for a run
	ErrImageDirUnavailable = errors.New("image directory unavailable")

	// ErrCatalogUnavailable is returned when the catalog file is missing or malformed
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrManifestUnavailable is returned when the manifest file is missing or malformed
	ErrManifestUnavailable = errors.New("manifest unavailable")

	// ErrManifestPersist is returned when the manifest could not be written back
	ErrManifestPersist = errors.New("manifest persist failed")

	// ErrRenameTargetExists is returned when a rename would overwrite an existing file
	ErrRenameTargetExists = errors.New("rename target already exists")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrDocumentNotFound is returned when a document store has no document for an id
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentStoreFailure is returned when a document store write fails
	ErrDocumentStoreFailure = errors.New("document store request failed")
)
