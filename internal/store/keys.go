package store

import "sync"

// keyPool provides reusable byte slices for building lookup keys.
// Keys handed to txn.Set or txn.Delete are retained by badger until commit,
// so those call sites clone the buffer first.
var keyPool = sync.Pool{
	New: func() any {
		// "library:" + "idx:" + index name + ":" + an absolute path fits
		// comfortably; longer paths grow the buffer.
		return make([]byte, 0, 256)
	},
}

// buildKey constructs prefix+suffix in a pooled buffer.
// Callers MUST call releaseKey when done with the key.
//
// Usage:
//
//	key := buildKey("item:", itemID)
//	defer releaseKey(key)
//	item, err := txn.Get(key)
func buildKey(prefix, suffix string) []byte {
	buf, _ := keyPool.Get().([]byte)
	buf = buf[:0]
	buf = append(buf, prefix...)
	buf = append(buf, suffix...)
	return buf
}

// buildIndexKey constructs prefix+"idx:"+indexName+":"+value in a pooled buffer.
// Callers MUST call releaseKey when done with the key.
func buildIndexKey(prefix, indexName, value string) []byte {
	buf, _ := keyPool.Get().([]byte)
	buf = buf[:0]
	buf = append(buf, prefix...)
	buf = append(buf, "idx:"...)
	buf = append(buf, indexName...)
	buf = append(buf, ':')
	buf = append(buf, value...)
	return buf
}

// releaseKey returns a key buffer to the pool. The slice must not be used afterwards.
func releaseKey(key []byte) {
	// Oversized buffers are left for the GC.
	if cap(key) <= 1024 {
		keyPool.Put(key[:0]) //nolint:staticcheck // slice header allocation is fine here
	}
}
