package store

import (
	"time"

	"github.com/abhisek/quizgate/internal/journal"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int          // max results (0 = unlimited)
	After  int64        // sequence > After
	Before int64        // sequence < Before
	From   time.Time    // timestamp >= From
	To     time.Time    // timestamp <= To
	Kind   journal.Kind // exact kind match ("" = any)
	Newest bool         // newest first
}
