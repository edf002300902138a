package handler

import (
	"mime/multipart"
	"net/http"
)

// maxUploadSize caps how much of a multipart body is held in memory before
// spilling to temp files (the limit passed to ParseMultipartForm).
const maxUploadSize = 32 << 20 // 32 MB

// formFile returns the named upload if the form includes one.
//
// A missing file is NOT an error here — several forms (registration,
// resource update, topic update) have optional uploads, and "no file sent"
// is the common case. Callers that require a file check ok themselves, and
// the service layer turns a nil reader into a ValidationError where one is
// mandatory.
//
// The caller must Close the returned file when ok is true.
func formFile(r *http.Request, field string) (multipart.File, string, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", false
	}
	return file, header.Filename, true
}
