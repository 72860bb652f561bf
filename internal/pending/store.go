// Package pending keeps anonymous scoring results until a user claims them.
//
// Each held result is one JSON file named after its claim token. Claiming
// moves the file aside before reading it, so a token can be redeemed once.
package pending

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/friendlens/friendlens/internal/scoring"
)

// ErrNotFound is returned for unknown, malformed or already claimed tokens.
var ErrNotFound = errors.New("pending: not found")

const fileExt = ".json"

// Held is an anonymous result waiting to be claimed.
type Held struct {
	Token         string                 `json:"token"`
	BundleVersion string                 `json:"bundle_version"`
	Result        scoring.Result         `json:"result"`
	Responses     []scoring.UserResponse `json:"responses"`
	CreatedAt     string                 `json:"created_at"`
}

// Store defines the persistence interface for held results.
type Store interface {
	Hold(result *scoring.Result, responses []scoring.UserResponse, bundleVersion string) (string, error)
	Load(token string) (*Held, error)
	Claim(token string) (*Held, error)
	Purge(olderThan time.Duration) (int, error)
}

// FileStore implements Store on a directory of JSON files.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates a store rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

// Dir returns the directory the store writes to.
func (fs *FileStore) Dir() string { return fs.dir }

func (fs *FileStore) path(token string) string {
	return filepath.Join(fs.dir, token+fileExt)
}

// Hold writes a result and returns its claim token.
func (fs *FileStore) Hold(result *scoring.Result, responses []scoring.UserResponse, bundleVersion string) (string, error) {
	if result == nil {
		return "", errors.New("pending: hold: result is nil")
	}
	if err := os.MkdirAll(fs.dir, 0o700); err != nil {
		return "", fmt.Errorf("pending: create directory: %w", err)
	}

	h := Held{
		Token:         uuid.NewString(),
		BundleVersion: bundleVersion,
		Result:        *result,
		Responses:     responses,
		CreatedAt:     fs.now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return "", fmt.Errorf("pending: encode: %w", err)
	}
	if err := os.WriteFile(fs.path(h.Token), data, 0o600); err != nil {
		return "", fmt.Errorf("pending: write: %w", err)
	}
	return h.Token, nil
}

// Load reads a held result without claiming it.
func (fs *FileStore) Load(token string) (*Held, error) {
	if !validToken(token) {
		return nil, fmt.Errorf("%w: token %q", ErrNotFound, token)
	}
	return readHeld(fs.path(token), token)
}

// Claim reads a held result and removes it. A second claim of the same
// token returns ErrNotFound.
func (fs *FileStore) Claim(token string) (*Held, error) {
	if !validToken(token) {
		return nil, fmt.Errorf("%w: token %q", ErrNotFound, token)
	}

	claimed := filepath.Join(fs.dir, token+".claimed-"+uuid.NewString())
	if err := os.Rename(fs.path(token), claimed); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: token %q", ErrNotFound, token)
		}
		return nil, fmt.Errorf("pending: claim: %w", err)
	}
	defer func() { _ = os.Remove(claimed) }()

	return readHeld(claimed, token)
}

// Purge deletes held results older than olderThan and returns how many
// were removed. Unreadable files are left alone.
func (fs *FileStore) Purge(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("pending: read directory: %w", err)
	}

	cutoff := fs.now().Add(-olderThan)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		token := strings.TrimSuffix(name, fileExt)
		h, err := readHeld(fs.path(token), token)
		if err != nil {
			continue
		}
		created, err := time.Parse(time.RFC3339, h.CreatedAt)
		if err != nil || !created.Before(cutoff) {
			continue
		}
		if err := os.Remove(fs.path(token)); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("pending: purge %s: %w", token, err)
		}
		removed++
	}
	return removed, nil
}

func readHeld(path, token string) (*Held, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: token %q", ErrNotFound, token)
		}
		return nil, fmt.Errorf("pending: read: %w", err)
	}

	var h Held
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("pending: parse %s: %w", token, err)
	}
	return &h, nil
}

// validToken keeps path separators and other junk out of file names.
func validToken(token string) bool {
	_, err := uuid.Parse(token)
	return err == nil && !strings.ContainsAny(token, `/\.`)
}
