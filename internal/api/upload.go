package api

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"gazecenter/internal/errors"
)

// UploadField is the multipart field carrying a recording
const UploadField = "file"

// ReadUpload reads a single multipart recording of at most maxBytes
func ReadUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (string, []byte, error) {
	// Leave room for the multipart envelope around the file itself
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+64<<10)

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return "", nil, errors.TooLarge(fmt.Sprintf("upload exceeds %d bytes", maxBytes))
		}
		return "", nil, errors.InvalidInput(fmt.Sprintf("missing %q upload: %v", UploadField, err))
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to read upload")
	}
	if int64(len(payload)) > maxBytes {
		return "", nil, errors.TooLarge(fmt.Sprintf("upload exceeds %d bytes", maxBytes))
	}
	return filepath.Base(header.Filename), payload, nil
}
