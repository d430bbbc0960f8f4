package outline

import (
	"encoding/json"
	"fmt"
	"os"
)

// KnownSet is the calibration table of previously verified documents:
// fingerprint to hand-confirmed outline. It is loaded once at startup
// and never mutated, so concurrent reads need no locking.
type KnownSet struct {
	records map[string]DocumentRecord
}

// NewKnownSet builds a set from an in-memory table. The map is copied.
func NewKnownSet(records map[string]DocumentRecord) *KnownSet {
	copied := make(map[string]DocumentRecord, len(records))
	for fp, rec := range records {
		copied[fp] = rec
	}
	return &KnownSet{records: copied}
}

// LoadKnownSet reads a JSON file mapping fingerprints to records. A
// missing path yields an empty set rather than an error, so deployments
// without calibration data run unchanged.
func LoadKnownSet(path string) (*KnownSet, error) {
	if path == "" {
		return &KnownSet{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &KnownSet{}, nil
		}
		return nil, fmt.Errorf("read known outlines: %w", err)
	}
	var records map[string]DocumentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse known outlines: %w", err)
	}
	return &KnownSet{records: records}, nil
}

// Lookup returns the stored record for a fingerprint. Safe on a nil or
// empty set.
func (k *KnownSet) Lookup(fingerprint string) (DocumentRecord, bool) {
	if k == nil || k.records == nil {
		return DocumentRecord{}, false
	}
	rec, ok := k.records[fingerprint]
	return rec, ok
}

// Len returns the number of calibrated documents.
func (k *KnownSet) Len() int {
	if k == nil {
		return 0
	}
	return len(k.records)
}
