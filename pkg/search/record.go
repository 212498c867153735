package search

import (
	"fmt"
	"strconv"
	"strings"
)

// recPrefix namespaces chunk records in the KV store.
const recPrefix = "rec/"

// Record is one indexed chunk. The record id is derived from
// (FilePath, Chunk), so re-indexing the same chunk is an upsert; for a
// given file, chunk numbers are contiguous from 0.
type Record struct {
	FilePath string `msgpack:"file_path"`
	Chunk    int    `msgpack:"chunk_number"`
	Text     string `msgpack:"document"`
}

// RecordID builds the deterministic id for a chunk. The file path comes
// first so ids sharing a folder prefix sort together and prefix deletion
// can match on the id string; the chunk number is zero-padded to keep id
// order aligned with chunk order.
func RecordID(filePath string, chunk int) string {
	return fmt.Sprintf("%s#%05d", filePath, chunk)
}

// ParseRecordID splits an id back into file path and chunk number.
func ParseRecordID(id string) (filePath string, chunk int, err error) {
	i := strings.LastIndex(id, "#")
	if i < 0 {
		return "", 0, fmt.Errorf("search: malformed record id %q", id)
	}
	chunk, err = strconv.Atoi(id[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("search: malformed record id %q: %w", id, err)
	}
	return id[:i], chunk, nil
}

// recKey maps a record id to its KV key.
func recKey(id string) string {
	return recPrefix + id
}

// fileKeyPrefix is the KV prefix covering every chunk of one file.
func fileKeyPrefix(filePath string) string {
	return recPrefix + filePath + "#"
}
