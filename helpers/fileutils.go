package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"update-release/model"
)

// BinaryPath resolves the on-disk location of a built binary inside the
// output directory.
func BinaryPath(outputDir string, bin model.Binary) string {
	return filepath.Join(outputDir, bin.Path, bin.Name)
}

// ReadVersionFile returns the trimmed contents of the version marker file.
// The version tag must be non-empty after trimming.
func ReadVersionFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading version file: %w", err)
	}

	version := strings.TrimSpace(string(raw))
	if version == "" {
		return "", fmt.Errorf("version file %s is empty", path)
	}

	return version, nil
}

// ComputeFileSHA returns the hex-encoded SHA-256 digest of the file at path.
func ComputeFileSHA(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
