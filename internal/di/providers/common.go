// Package providers contains dependency injection providers for the shelf.
package providers

import "time"

const (
	// reindexTimeout bounds the startup reindex of an empty search index.
	reindexTimeout = 5 * time.Minute
)
