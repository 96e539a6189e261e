package gazefile

import (
	"fmt"
	"os"

	"gazecenter/domain/gaze"
	"gazecenter/internal/errors"
)

// WithTempUpload writes payload to a temporary file in dir (the system temp
// dir when empty), calls fn with its path, and removes the file on every
// return path.
func WithTempUpload(dir string, payload []byte, fn func(path string) error) (err error) {
	f, err := os.CreateTemp(dir, "gaze-upload-*"+Extension)
	if err != nil {
		return errors.Wrap(err, "failed to create upload file")
	}
	path := f.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = errors.Wrap(rmErr, "failed to remove upload file")
		}
	}()

	if _, werr := f.Write(payload); werr != nil {
		f.Close()
		return errors.Wrap(werr, "failed to write upload file")
	}
	if cerr := f.Close(); cerr != nil {
		return errors.Wrap(cerr, "failed to close upload file")
	}

	return fn(path)
}

// ParseUpload parses an uploaded recording through a scoped temporary file
func ParseUpload(dir string, payload []byte) ([]gaze.GazeSample, error) {
	var samples []gaze.GazeSample
	err := WithTempUpload(dir, payload, func(path string) error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "failed to reopen upload file")
		}
		defer f.Close()

		samples, err = Parse(f)
		if err != nil {
			return errors.Wrap(err, fmt.Sprintf("uploaded file (%d bytes)", len(payload)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}
