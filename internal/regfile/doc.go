// Package regfile defines the on-disk registry document and its durable,
// atomic-replacement codec.
package regfile

// SchemaVersion is the current registry document schema version written by
// this package. A document read with a different (older or newer) version
// is treated as empty rather than rejected: an older version means nothing
// here yet depends on fields this schema added, and a newer version is one
// this code does not understand, so graceful recovery applies identically to
// both per the registry's corruption-tolerance contract.
const SchemaVersion = 1

// Entry is a single allocation record persisted in the registry document.
type Entry struct {
	Port            uint16 `json:"port"`
	PID             int    `json:"pid"`
	TimestampMillis int64  `json:"timestamp"`
	Tag             string `json:"tag,omitempty"`
}

// Document is the full on-disk registry: a schema version plus the ordered
// sequence of allocation entries. Entry order is cosmetic; nothing in the
// engine depends on it.
type Document struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// Empty returns a fresh Document at SchemaVersion with no entries. Used both
// as the result of reading a missing or corrupt registry file and as the
// payload for Clear.
func Empty() Document {
	return Document{Version: SchemaVersion, Entries: []Entry{}}
}
