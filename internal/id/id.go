// Package id generates time-sortable ULID identifiers for journal rows.
package id

import (
	cryptoRand "crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu sync.Mutex

	// ulid.Monotonic keeps IDs generated within the same millisecond
	// lexicographically increasing; it is not safe for concurrent use,
	// hence the mutex.
	mono = ulid.Monotonic(cryptoRand.Reader, 0)
)

// New returns a ULID string. Run and trade rows are keyed by these so
// SQLite indexes stay roughly insertion-ordered.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), mono)
	if err != nil {
		panic(err)
	}
	return id.String()
}
