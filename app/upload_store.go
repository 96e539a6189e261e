package app

import (
	"sync"

	"gazecenter/domain/core"
	"gazecenter/internal/errors"
)

// Upload is a raw uploaded recording. Only the bytes are kept; every render
// parses them again.
type Upload struct {
	ID       core.UploadID
	Filename string
	Hash     core.Hash
	Payload  []byte
}

// UploadStore keeps the most recent uploads, evicting the oldest first.
// Re-uploading identical content under the same name returns the stored
// upload.
type UploadStore struct {
	mu       sync.RWMutex
	uploads  map[core.UploadID]Upload
	byHash   map[core.Hash]core.UploadID
	order    []core.UploadID
	capacity int
}

// NewUploadStore creates a store holding at most capacity uploads
func NewUploadStore(capacity int) *UploadStore {
	if capacity < 1 {
		capacity = 1
	}
	return &UploadStore{
		uploads:  make(map[core.UploadID]Upload),
		byHash:   make(map[core.Hash]core.UploadID),
		capacity: capacity,
	}
}

// Put stores a payload under a fresh ID, or returns the existing upload of
// the same file
func (s *UploadStore) Put(filename string, payload []byte) Upload {
	hash := core.NewHash(append([]byte(filename+"\x00"), payload...))

	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byHash[hash]; ok {
		return s.uploads[id]
	}

	up := Upload{
		ID:       core.UploadID(core.NewID()),
		Filename: filename,
		Hash:     hash,
		Payload:  append([]byte(nil), payload...),
	}
	s.uploads[up.ID] = up
	s.byHash[hash] = up.ID
	s.order = append(s.order, up.ID)
	for len(s.order) > s.capacity {
		evicted := s.uploads[s.order[0]]
		delete(s.uploads, evicted.ID)
		delete(s.byHash, evicted.Hash)
		s.order = s.order[1:]
	}
	return up
}

// Get returns a stored upload
func (s *UploadStore) Get(id core.UploadID) (Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	up, ok := s.uploads[id]
	if !ok {
		return Upload{}, errors.NotFound("upload " + id.String())
	}
	return up, nil
}

// Len returns the number of stored uploads
func (s *UploadStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.uploads)
}
