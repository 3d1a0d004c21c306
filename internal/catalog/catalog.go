// Package catalog derives a discoverable tree of message types and
// fields, with data availability and time domain availability per type,
// for presentation by an external UI collaborator.
package catalog

import (
	"fmt"

	"github.com/aistovaai/uavlogviewer/internal/store"
)

// FieldEntry describes one field of a message type.
type FieldEntry struct {
	QualifiedName string `json:"qualifiedName"`         // "TYPE.FIELD" parameter path
	HasData       bool   `json:"hasData"`               // true if any record holds a non-null value
	Description   string `json:"description,omitempty"` // empty when the index has no entry
}

// TypeEntry describes one message type: its time domains and fields.
type TypeEntry struct {
	Description string                `json:"description,omitempty"`
	Domains     []string              `json:"domains"` // union over all records, sorted
	Fields      map[string]FieldEntry `json:"fields"`
}

// Catalog is a derived, rebuildable view over the record store, keyed by
// message type. It is entirely recomputable and never independently
// mutated.
type Catalog map[string]TypeEntry

// Builder builds catalogs from a record store and a description index.
type Builder struct {
	store        *store.Store
	descriptions Descriptions
}

// NewBuilder creates a Builder. A nil descriptions index behaves as an
// empty one.
func NewBuilder(st *store.Store, descriptions Descriptions) *Builder {
	return &Builder{store: st, descriptions: descriptions}
}

// Build derives the catalog from the current store contents. It is a
// pure read with no synchronization of its own; callers must not invoke
// it concurrently with an in-progress ingestion pass.
//
// The field list of a type is taken from its first record only. Field
// sets that vary across records of the same type are not reconciled;
// this mirrors the decoder's fixed per-type schema and is a documented
// simplification.
func (b *Builder) Build() Catalog {
	c := make(Catalog)

	for _, msgType := range b.store.Types() {
		records := b.store.Records(msgType)
		if len(records) == 0 {
			continue
		}

		entry := TypeEntry{
			Description: b.descriptions.Lookup(msgType),
			Domains:     b.store.Domains(msgType),
			Fields:      make(map[string]FieldEntry, len(records[0].Fields)),
		}

		for field := range records[0].Fields {
			qualified := fmt.Sprintf("%s.%s", msgType, field)
			entry.Fields[field] = FieldEntry{
				QualifiedName: qualified,
				HasData:       hasData(records, field),
				Description:   b.descriptions.Lookup(qualified),
			}
		}

		c[msgType] = entry
	}

	return c
}

func hasData(records []*store.Record, field string) bool {
	for _, r := range records {
		if v, ok := r.Fields[field]; ok && !v.IsNull() {
			return true
		}
	}
	return false
}
