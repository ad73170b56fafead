package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrBlobMissing reports a metadata path with no file behind it.
var ErrBlobMissing = errors.New("blob missing from storage")

const maxNameLen = 64

// Store keeps compressed blobs under a single root directory and hands out
// scratch copies of their decompressed contents.
type Store struct {
	root string
}

func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the storage root directory.
func (s *Store) Root() string { return s.root }

// ResolvePath returns a fresh on-disk location for a blob with the given
// display name. The uuid prefix makes concurrent resolutions collision-free;
// sanitization keeps the result inside the root.
func (s *Store) ResolvePath(displayName string) string {
	name := fmt.Sprintf("%s_%s.gz", uuid.New().String(), sanitizeName(displayName))
	return filepath.Join(s.root, name)
}

// Save writes an already-compressed stream through to a resolved path and
// returns the path together with the stored (compressed) size. The gzip
// framing is verified while writing, so a malformed container is rejected
// here instead of surfacing at first download; nothing is left on disk in
// that case.
func (s *Store) Save(displayName string, r io.Reader) (string, int64, error) {
	path := s.ResolvePath(displayName)

	dst, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create blob: %w", err)
	}

	// Every byte read by the decoder has already been teed into dst, so a
	// clean decode means the blob on disk is the full verified container.
	if err := Decompress(io.Discard, io.TeeReader(r, dst)); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", 0, err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", 0, err
	}

	info, err := os.Stat(path)
	if err != nil {
		_ = os.Remove(path)
		return "", 0, err
	}
	return path, info.Size(), nil
}

// Remove deletes a blob. Errors are ignored; the file may already be gone.
func (s *Store) Remove(path string) {
	_ = os.Remove(path)
}

// OpenDecompressed inflates a stored blob into a fresh scratch file, so
// concurrent downloads of the same blob never share a path. The returned
// release func removes the scratch file and must be called on every exit
// path; a failed decode leaves no scratch file behind.
func (s *Store) OpenDecompressed(path string) (string, func(), error) {
	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, ErrBlobMissing
		}
		return "", nil, err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "clinrec-*")
	if err != nil {
		return "", nil, fmt.Errorf("create scratch file: %w", err)
	}
	release := func() { _ = os.Remove(tmp.Name()) }

	if err := Decompress(tmp, src); err != nil {
		_ = tmp.Close()
		release()
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		release()
		return "", nil, err
	}
	return tmp.Name(), release, nil
}

// sanitizeName strips path separators and control characters from a display
// name so the resolved path cannot escape the storage root.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, name)
	name = strings.TrimLeft(name, ".")
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	if name == "" {
		return "file"
	}
	return name
}
