// Package hasher provides streaming SHA256 content hashing.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// ChunkSize is the number of bytes read from a stream per call.
const ChunkSize = 128 * 1024

// Metadata holds the computed identity of a file's content.
type Metadata struct {
	Hash string // hex-encoded SHA256
	Size int64  // bytes hashed
}

// Hasher computes the content identity of a file on disk.
type Hasher interface {
	File(path string) (*Metadata, error)
}

// HasherFunc adapts a function to Hasher.
type HasherFunc func(path string) (*Metadata, error)

func (f HasherFunc) File(path string) (*Metadata, error) {
	return f(path)
}

// Default hashes with File.
var Default Hasher = HasherFunc(File)

// Sum streams r through SHA256 in ChunkSize reads and returns the lowercase
// hex digest.
func Sum(r io.Reader) (string, error) {
	hash, _, err := sum(r)
	return hash, err
}

// File hashes the file at path without loading it into memory.
func File(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hasher: open file: %w", err)
	}
	defer f.Close()

	hash, size, err := sum(f)
	if err != nil {
		return nil, fmt.Errorf("hasher: read %s: %w", path, err)
	}

	return &Metadata{
		Hash: hash,
		Size: size,
	}, nil
}

func sum(r io.Reader) (string, int64, error) {
	h := sha256.New()
	buf := make([]byte, ChunkSize)

	var size int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			size += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", size, err
		}
	}

	return hex.EncodeToString(h.Sum(nil)), size, nil
}
