package engine

import (
	"errors"
	"fmt"

	"github.com/hupe1980/fragsync/codec"
	"github.com/hupe1980/fragsync/model"
)

// FormatVersion is the fragment file version this package writes.
const FormatVersion = 1

// File is the fragment file layout.
type File struct {
	Version   int              `json:"version"`
	Fragments []FragmentRecord `json:"fragments"`
}

// FragmentRecord is one fragment and its items.
type FragmentRecord struct {
	ID    string       `json:"id"`
	Items []ItemRecord `json:"items"`
}

// ItemRecord binds an item of a fragment to a GlobalID.
type ItemRecord struct {
	ID       uint32         `json:"id"`
	GlobalID model.GlobalID `json:"globalId"`
}

var (
	// ErrEmptyPayload is returned for a zero-length payload.
	ErrEmptyPayload = errors.New("engine: empty payload")
	// ErrUnsupportedVersion is returned for a file version newer than FormatVersion.
	ErrUnsupportedVersion = errors.New("engine: unsupported fragment file version")
)

// FormatError describes a malformed fragment file.
type FormatError struct {
	Fragment string
	Reason   string
}

func (e *FormatError) Error() string {
	if e.Fragment == "" {
		return "engine: malformed fragment file: " + e.Reason
	}
	return fmt.Sprintf("engine: malformed fragment %q: %s", e.Fragment, e.Reason)
}

// Encode serializes f with c, or codec.Default if c is nil.
func Encode(c codec.Codec, f File) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	if f.Version == 0 {
		f.Version = FormatVersion
	}
	return c.Marshal(f)
}

// Decode parses and validates a fragment file.
func Decode(c codec.Codec, payload []byte) (*File, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	if c == nil {
		c = codec.Default
	}

	var f File
	if err := c.Unmarshal(payload, &f); err != nil {
		return nil, fmt.Errorf("engine: decode fragment file: %w", err)
	}
	if f.Version > FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	seen := make(map[string]struct{}, len(f.Fragments))
	for _, frag := range f.Fragments {
		if frag.ID == "" {
			return &FormatError{Reason: "fragment without id"}
		}
		if _, dup := seen[frag.ID]; dup {
			return &FormatError{Fragment: frag.ID, Reason: "duplicate fragment id"}
		}
		seen[frag.ID] = struct{}{}

		items := make(map[uint32]struct{}, len(frag.Items))
		for _, it := range frag.Items {
			if it.GlobalID == "" {
				return &FormatError{Fragment: frag.ID, Reason: fmt.Sprintf("item %d without global id", it.ID)}
			}
			if _, dup := items[it.ID]; dup {
				return &FormatError{Fragment: frag.ID, Reason: fmt.Sprintf("duplicate item %d", it.ID)}
			}
			items[it.ID] = struct{}{}
		}
	}
	return nil
}
