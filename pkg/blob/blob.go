// Package blob stores uploaded profile pictures on the local filesystem
// and hands out retrievable URLs. Objects live under <images dir>/<name>;
// the HTTP layer serves them below /images/.
package blob

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"powerchat/pkg/logger"
)

// Distinct failure kinds: writing the bytes and resolving the URL fail
// independently and callers report them apart.
var (
	ErrUploadFailed = errors.New("upload failed")
	ErrURLRetrieval = errors.New("failed to resolve download url")
)

var (
	imagesDir  string
	publicBase string
)

// Init points the blob store at its images directory and the public base
// URL under which objects are served.
func Init(dir, base string) {
	imagesDir = dir
	publicBase = strings.TrimRight(base, "/")
}

// Ready reports whether Init has been called.
func Ready() bool { return imagesDir != "" }

// Upload writes data under images/<name> and returns the retrievable URL.
// The two steps fail with distinct error kinds.
func Upload(data []byte, name string) (string, error) {
	if imagesDir == "" {
		return "", fmt.Errorf("%w: blob store not initialized", ErrUploadFailed)
	}
	if !safeName(name) {
		return "", fmt.Errorf("%w: unsafe object name %q", ErrUploadFailed, name)
	}
	dst := filepath.Join(imagesDir, name)
	// write through a temp file so a failed upload never leaves a partial object
	tmp, err := os.CreateTemp(imagesDir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	logger.Info("blob_uploaded", "name", name, "bytes", len(data))
	return DownloadURL("images/" + name)
}

// DownloadURL resolves the public URL for a stored object path of the form
// images/<name>. Missing objects fail with ErrURLRetrieval.
func DownloadURL(path string) (string, error) {
	name := strings.TrimPrefix(path, "images/")
	if name == path || !safeName(name) {
		return "", fmt.Errorf("%w: bad object path %q", ErrURLRetrieval, path)
	}
	if _, err := os.Stat(filepath.Join(imagesDir, name)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrURLRetrieval, err)
	}
	if publicBase == "" {
		return "/images/" + name, nil
	}
	return publicBase + "/images/" + name, nil
}

// safeName rejects names that could escape the images directory.
func safeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, "/\\") {
		return false
	}
	return true
}
