package gazefile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gazecenter/domain/core"
	"gazecenter/internal/errors"
)

// Extension is the file suffix of participant recordings
const Extension = ".txt"

// DirectorySource serves participant recordings from one local directory.
// The directory is passed in explicitly so tests can point it anywhere.
type DirectorySource struct {
	dir string
}

// NewDirectorySource creates a source rooted at dir
func NewDirectorySource(dir string) *DirectorySource {
	return &DirectorySource{dir: dir}
}

// Describe names the source
func (s *DirectorySource) Describe() string {
	return "dir:" + s.dir
}

// List returns the base names of all *.txt files, sorted by name
func (s *DirectorySource) List(ctx context.Context) ([]core.ParticipantID, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(fmt.Sprintf("participant directory %s", s.dir))
		}
		return nil, errors.Wrapf(err, "failed to list participant directory %s", s.dir)
	}

	var ids []core.ParticipantID
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		ids = append(ids, core.ParticipantID(strings.TrimSuffix(entry.Name(), Extension)))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Open opens <dir>/<id>.txt
func (s *DirectorySource) Open(ctx context.Context, id core.ParticipantID) (io.ReadCloser, error) {
	if _, err := core.ParseParticipantID(id.String()); err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	path := filepath.Join(s.dir, id.String()+Extension)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(fmt.Sprintf("participant %s (%s)", id, path))
		}
		return nil, errors.Wrapf(err, "failed to open participant %s", id)
	}
	return f, nil
}
