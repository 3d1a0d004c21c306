// Package store holds the decoded telemetry records of a single flight
// log, grouped by message type in arrival order.
//
// The store is append-only during an ingestion pass and read-only
// afterwards. It provides no internal locking: there is exactly one
// writer, and callers must not issue reads until the ingestion pass has
// signalled completion.
package store

import (
	"maps"
	"sort"

	"github.com/aistovaai/uavlogviewer/internal/telemetry"
)

// Record is one stored message occurrence.
//
// Timestamps maps time domain names to seconds; only the domains carried
// by that particular message instance are present. Fields maps field
// names to decoded values, null when the decoder did not supply one.
// Field names are disjoint from timestamp domain names.
type Record struct {
	Timestamps map[string]float64
	Fields     map[string]telemetry.Value
}

// Store is the message record store. Use New to create one.
type Store struct {
	records map[string][]*Record
	total   int
}

// New creates an empty Store.
func New() *Store {
	return &Store{records: make(map[string][]*Record)}
}

// Append adds one record to the ordered sequence for msgType, creating
// the sequence on first use. The maps are copied, so the caller may reuse
// them after Append returns.
//
// No validation or deduplication is performed: repeated identical records
// are stored as separate entries, and a record carrying fewer fields than
// earlier records of its type is stored as-is. The record becomes visible
// as a whole or not at all, which makes cancelling an ingestion pass
// between appends safe.
func (s *Store) Append(msgType string, timestamps map[string]float64, fields map[string]telemetry.Value) {
	r := Record{
		Timestamps: make(map[string]float64, len(timestamps)),
		Fields:     make(map[string]telemetry.Value, len(fields)),
	}
	maps.Copy(r.Timestamps, timestamps)
	maps.Copy(r.Fields, fields)

	s.records[msgType] = append(s.records[msgType], &r)
	s.total++
}

// Has returns true if at least one record of msgType has been stored.
func (s *Store) Has(msgType string) bool {
	return len(s.records[msgType]) > 0
}

// Records returns the stored records of msgType in arrival order, or nil
// if the type is unknown. The returned slice is shared; callers must not
// modify it.
func (s *Store) Records(msgType string) []*Record {
	return s.records[msgType]
}

// Types returns all message type names with at least one record, sorted.
func (s *Store) Types() []string {
	types := make([]string, 0, len(s.records))
	for t := range s.records {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Len returns the total number of stored records across all types.
func (s *Store) Len() int {
	return s.total
}

// Domains returns the union of time domain names observed on records of
// msgType, sorted. The result is nil if the type is unknown.
func (s *Store) Domains(msgType string) []string {
	records, ok := s.records[msgType]
	if !ok {
		return nil
	}

	seen := make(map[string]struct{})
	for _, r := range records {
		for domain := range r.Timestamps {
			seen[domain] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// AllDomains returns the union of time domain names observed across all
// message types, sorted.
func (s *Store) AllDomains() []string {
	seen := make(map[string]struct{})
	for _, records := range s.records {
		for _, r := range records {
			for domain := range r.Timestamps {
				seen[domain] = struct{}{}
			}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
