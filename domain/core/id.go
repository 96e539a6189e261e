package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	ParticipantID ID
	UploadID      ID
	AnalysisID    ID
)

func (id ParticipantID) String() string { return ID(id).String() }
func (id UploadID) String() string      { return ID(id).String() }
func (id AnalysisID) String() string    { return ID(id).String() }

func (id ParticipantID) IsEmpty() bool { return id == "" }
func (id UploadID) IsEmpty() bool      { return id == "" }

// ParseParticipantID validates a participant identifier. Participants are
// addressed by the base name of their data file, so separators and relative
// path elements are rejected.
func ParseParticipantID(s string) (ParticipantID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("participant ID cannot be empty")
	}
	if s == "." || s == ".." || strings.ContainsAny(s, `/\`) || filepath.Base(s) != s {
		return "", fmt.Errorf("participant ID %q must be a plain file base name", s)
	}
	return ParticipantID(s), nil
}

// ParseUploadID parses an upload identifier issued by NewID
func ParseUploadID(s string) (UploadID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("upload ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("upload ID %q is not a UUID: %w", s, err)
	}
	return UploadID(s), nil
}
