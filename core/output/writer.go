// Package output handles artifact naming and writing for termscan reports.
// An artifact is a single named file in the output directory. Writing the
// same name again replaces the previous file (last write wins, no append,
// no versioning). Writes to one name are serialized.
package output

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir, locks: make(map[string]*sync.Mutex)}, nil
}

// Path returns where an artifact with the given name is stored.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.OutputDir, name)
}

// Write stores data under name, replacing any earlier artifact. The data is
// written to a temporary file first, so a failed write leaves the previous
// artifact (or nothing) in place.
func (w *Writer) Write(name string, data []byte) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	lock := w.lockFor(name)
	lock.Lock()
	defer lock.Unlock()

	path := w.Path(name)
	tmp, err := os.CreateTemp(w.OutputDir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing file %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("replacing file %s: %w", path, err)
	}
	return path, nil
}

// Read returns the current contents of the named artifact.
func (w *Writer) Read(name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	lock := w.lockFor(name)
	lock.Lock()
	defer lock.Unlock()

	data, err := os.ReadFile(w.Path(name))
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", w.Path(name), err)
	}
	return data, nil
}

func (w *Writer) lockFor(name string) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.locks == nil {
		w.locks = make(map[string]*sync.Mutex)
	}
	l, ok := w.locks[name]
	if !ok {
		l = &sync.Mutex{}
		w.locks[name] = l
	}
	return l
}

// validateName rejects names that would escape the output directory.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	return nil
}

// NameFromURL converts a URL into a flat artifact name.
// Example: https://example.com/legal/terms → example_com_legal_terms.pdf
func NameFromURL(rawURL string, ext string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		// Fallback: sanitize the raw string.
		return sanitize(rawURL) + ext
	}

	parts := []string{sanitize(parsed.Host)}
	path := strings.Trim(parsed.Path, "/")
	if path != "" {
		for _, seg := range strings.Split(path, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_") + ext
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
