package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeShop lays out a small storefront and a config file pointing at it
func writeShop(t *testing.T) (configFile, imagesDir string) {
	t.Helper()
	root := t.TempDir()
	imagesDir = filepath.Join(root, "images")
	require.NoError(t, os.MkdirAll(imagesDir, 0755))
	for _, name := range []string{"Cherry_6.jpg", "logo.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(imagesDir, name), []byte("x"), 0644))
	}

	catalogPath := filepath.Join(root, "products.json")
	require.NoError(t, os.WriteFile(catalogPath,
		[]byte(`[{"id":"p1","flavor":"Cherry","strength":6,"imageUrl":"/images/products/Cherry_6.jpg"}]`), 0644))

	configFile = filepath.Join(root, "config.yaml")
	content := fmt.Sprintf(`
images:
  dir: %s
catalog:
  path: %s
manifest:
  path: %s
docstore:
  path: %s
log:
  level: error
`, imagesDir, catalogPath, filepath.Join(root, "imageManifest.json"), filepath.Join(root, "catalog.db"))
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	return configFile, imagesDir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		apply = false
		rebuildApply = false
		format = "text"
		importCollection = ""
		importIDField = "key"
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReconcileCommand(t *testing.T) {
	configFile, imagesDir := writeShop(t)

	out, err := execute(t, "--config", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Image reconcile report (dry-run)")
	assert.Contains(t, out, "Cherry_6.jpg -> cherry-6mg.jpg  [catalog]")
	assert.NotContains(t, out, "logo.png")
	// missing manifest is a warning, not a failure
	assert.Contains(t, out, "Warnings (1)")

	out, err = execute(t, "--config", configFile, "--apply")
	require.NoError(t, err)
	assert.Contains(t, out, "renamed:      1")
	_, err = os.Stat(filepath.Join(imagesDir, "cherry-6mg.jpg"))
	assert.NoError(t, err)
}

func TestReconcileCommand_JSON(t *testing.T) {
	configFile, _ := writeShop(t)

	out, err := execute(t, "--config", configFile, "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Summary struct {
			Inconsistent int `json:"inconsistent"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 1, doc.Summary.Inconsistent)
}

func TestReconcileCommand_MissingImageDir(t *testing.T) {
	configFile, imagesDir := writeShop(t)
	require.NoError(t, os.RemoveAll(imagesDir))

	_, err := execute(t, "--config", configFile)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "image directory unavailable")
}

func TestReconcileCommand_BadFormat(t *testing.T) {
	configFile, _ := writeShop(t)

	_, err := execute(t, "--config", configFile, "--format", "xml")

	assert.Error(t, err)
}

func TestImportCommand(t *testing.T) {
	configFile, _ := writeShop(t)

	out, err := execute(t, "import", "--config", configFile, "--collection", "pouches")

	require.NoError(t, err)
	assert.Contains(t, out, `Imported into "pouches": 1 written, 0 skipped, 0 failed`)
}

func TestManifestRebuildCommand(t *testing.T) {
	configFile, _ := writeShop(t)

	out, err := execute(t, "manifest", "rebuild", "--config", configFile)

	require.NoError(t, err)
	assert.Contains(t, out, "0 added, 0 changed, 1 products without a conforming image")
	assert.Contains(t, out, "no image: cherry-6mg")
	assert.Contains(t, out, "Dry run; pass --apply")
}
