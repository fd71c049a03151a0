package sim

import (
	"log"
	"math"
)

// Freq is the frequency of a clock domain.
type Freq float64

// Frequency units.
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the time between two consecutive ticks.
func (f Freq) Period() VTimeInSec {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}

	return VTimeInSec(1.0 / f)
}

// Cycle converts a time to the number of cycles passed since time 0.
func (f Freq) Cycle(t VTimeInSec) uint64 {
	return uint64(math.Round(float64(t) * float64(f)))
}

// tickCount converts a time to a fractional tick count, absorbing
// floating point noise in the last decimal digit.
func (f Freq) tickCount(t VTimeInSec) float64 {
	if math.IsNaN(float64(t)) {
		log.Panic("invalid time")
	}

	return math.Round(float64(t)*10*float64(f)) / 10
}

// ThisTick returns the tick time at or right after the given time.
func (f Freq) ThisTick(now VTimeInSec) VTimeInSec {
	return VTimeInSec(math.Ceil(f.tickCount(now)) / float64(f))
}

// NextTick returns the first tick time strictly after the given time.
func (f Freq) NextTick(now VTimeInSec) VTimeInSec {
	return VTimeInSec((math.Floor(f.tickCount(now)) + 1) / float64(f))
}

// NCyclesLater returns the tick time n cycles after now. The returned
// time always lies on the tick grid.
func (f Freq) NCyclesLater(n int, now VTimeInSec) VTimeInSec {
	return f.ThisTick(now + VTimeInSec(Freq(n)/f))
}
