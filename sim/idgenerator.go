package sim

import (
	"strconv"
	"sync/atomic"
)

// IDGenerator generates the IDs for messages and events.
type IDGenerator interface {
	Generate() string
}

var idGenerator IDGenerator = &sequentialIDGenerator{}

// GetIDGenerator returns the ID generator of the simulation. IDs are
// sequential, which keeps runs deterministic.
func GetIDGenerator() IDGenerator {
	return idGenerator
}

type sequentialIDGenerator struct {
	next uint64
}

func (g *sequentialIDGenerator) Generate() string {
	n := atomic.AddUint64(&g.next, 1)
	return strconv.FormatUint(n, 10)
}
