// Package blob stores uploaded file content.
//
// The database keeps a FileRecord row; this package keeps the bytes. The two
// have independent lifecycles: a row delete triggers a best-effort Remove of
// the blob, issued fire-and-forget by the service layer. The Store interface
// hides whether bytes live on the local disk or in a MinIO bucket — handlers
// serve uploads through Open either way.
package blob

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/xid"
)

// Store is the upload storage contract.
type Store interface {
	// Save writes the stream under a freshly generated key and returns it.
	// Keys are unique per call, so Save never overwrites an existing blob.
	Save(ctx context.Context, r io.Reader, originalName string) (string, error)
	// Open returns the blob's content and its content type ("" if unknown).
	// The caller must close the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	// Remove deletes the blob. Removing an absent blob returns an error the
	// caller is expected to log and swallow — reclamation is best-effort.
	Remove(ctx context.Context, key string) error
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// newKey generates a storage key for an upload.
//
// An xid prefix makes the key collision-resistant AND creation-time sortable
// (xid encodes a timestamp in its leading bytes). The original filename is
// kept as a sanitized suffix so downloads have a recognisable name:
//
//	cv37rs3pp9olc6atsptg_lecture-notes.pdf
//
// Sanitizing matters: the original name is attacker-controlled, and keys end
// up in filesystem paths. Anything outside [a-zA-Z0-9._-] is replaced, and
// filepath.Base strips any directory components ("../../etc/passwd" → "passwd").
func newKey(originalName string) string {
	base := filepath.Base(originalName)
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "upload"
	}
	return xid.New().String() + "_" + base
}
