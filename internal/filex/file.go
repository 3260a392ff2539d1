// Package filex handles local persistence of binary attachments (field
// photos) awaiting upload. Files live in a data-scoped directory and are
// named <epoch-millis>_<kind>.jpg so paths stay unique and self-describing.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// nowFn is a test seam for the timestamp-based file naming.
var nowFn = time.Now

// EnsureDir creates dir (and parents) if absent and returns its path.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// SaveAttachment writes blob under dir with a timestamp-based unique name,
// e.g. 1699999999999_artifact.jpg, and returns the full path.
func SaveAttachment(dir string, kind string, blob []byte) (string, error) {
	if _, err := EnsureDir(dir); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d_%s.jpg", nowFn().UnixMilli(), kind)
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, blob, 0o660); err != nil {
		return "", fmt.Errorf("write attachment %s: %w", path, err)
	}
	return path, nil
}

// ReadAttachment reads a previously saved attachment back as raw bytes.
func ReadAttachment(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment %s: %w", path, err)
	}
	return b, nil
}

// RemoveAttachment deletes the file at path. Removing a file that is already
// gone is not an error.
func RemoveAttachment(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove attachment %s: %w", path, err)
	}
	return nil
}
