// Package framedma implements a DMA engine that captures a pixel stream
// into frame buffers. Frame hand-off between the engine and the consumer
// goes through a small table of slots. The consumer arms a slot with a
// target address, the engine fills exactly one frame starting at that
// address, and marks the slot pending once every word of the frame has
// drained to memory.
package framedma

// SlotStatus is the composite state of a slot as seen by both sides of
// the hand-off.
type SlotStatus int

// The three observable slot states.
const (
	// SlotEmpty means the slot holds no frame and is not armed.
	SlotEmpty SlotStatus = iota

	// SlotLoaded means the consumer armed the slot and the engine may
	// fill it.
	SlotLoaded

	// SlotPending means the engine filled the slot and the frame has
	// fully drained to memory. The slot stays pending until the consumer
	// re-arms or releases it.
	SlotPending
)

func (s SlotStatus) String() string {
	switch s {
	case SlotEmpty:
		return "empty"
	case SlotLoaded:
		return "loaded"
	case SlotPending:
		return "pending"
	}

	return "invalid"
}

// A Slot is one entry of the frame hand-off table. The armed flag is
// written by the consumer only and the pending flag by the engine only,
// so neither side can clobber an update made by the other. When both
// flags are set, pending wins until the consumer arms the slot again.
type Slot struct {
	targetAddress  uint64
	addressReached uint64
	armed          bool
	pending        bool
}

// SetTargetAddress points the slot at the base word address of a frame
// buffer. Consumer side.
func (s *Slot) SetTargetAddress(addr uint64) {
	s.targetAddress = addr
}

// TargetAddress returns the base word address the slot points at.
func (s *Slot) TargetAddress() uint64 {
	return s.targetAddress
}

// Arm offers the slot to the engine. It also acknowledges an earlier
// completion, so a pending slot becomes loaded again. Consumer side.
func (s *Slot) Arm() {
	s.armed = true
	s.pending = false
}

// Release withdraws the slot from the engine. Consumer side.
func (s *Slot) Release() {
	s.armed = false
	s.pending = false
}

// Status derives the composite slot state from the two flags.
func (s *Slot) Status() SlotStatus {
	switch {
	case s.pending:
		return SlotPending
	case s.armed:
		return SlotLoaded
	}

	return SlotEmpty
}

// AddressReached returns the last word address the engine wrote for the
// most recently completed frame. It is only meaningful while the slot is
// pending.
func (s *Slot) AddressReached() uint64 {
	return s.addressReached
}

// complete marks the frame in the slot as fully drained. Engine side.
func (s *Slot) complete(addressReached uint64) {
	s.pending = true
	s.armed = false
	s.addressReached = addressReached
}
