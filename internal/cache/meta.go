package cache

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// bump when Meta changes shape; older sidecars are ignored by List
const metaSchemaVersion uint16 = 1

// errSchema marks a sidecar written by another version of the tool.
var errSchema = errors.New("cache: metadata schema mismatch")

// Meta describes a stored entry. It is informational only: lookups trust the
// digest sidecar, never this record.
type Meta struct {
	Schema   uint16
	Source   string
	Mode     Mode
	Digest   Digest
	Size     int64
	StoredAt time.Time
	// Command is the compiler command line that produced the binary.
	Command []string
}

func encodeMeta(m *Meta) ([]byte, error) {
	m.Schema = metaSchemaVersion
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode cache metadata: %w", err)
	}
	return buf.Bytes(), nil
}

func readMeta(path string) (Meta, error) {
	var m Meta
	// #nosec G304 -- path is inside the cache root
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decode %s: %w", path, err)
	}
	if m.Schema != metaSchemaVersion {
		return m, errSchema
	}
	return m, nil
}
