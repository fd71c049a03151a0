package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar tracks how far a long-running capture has advanced. The
// monitor serializes the registered bars on the progress endpoint.
type ProgressBar struct {
	sync.Mutex

	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
}

// IncrementFinished adds to the number of finished elements.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}
