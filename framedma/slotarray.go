package framedma

// A SlotArray holds the hand-off slots and latches which slot the engine
// is filling. The latched slot stays fixed for the whole frame, even if
// a lower-index slot becomes loaded mid-frame.
type SlotArray struct {
	slots   []*Slot
	current int
}

// NewSlotArray creates a SlotArray with n empty slots.
func NewSlotArray(n int) *SlotArray {
	a := &SlotArray{
		slots:   make([]*Slot, n),
		current: -1,
	}

	for i := range a.slots {
		a.slots[i] = &Slot{}
	}

	return a
}

// Len returns the number of slots.
func (a *SlotArray) Len() int {
	return len(a.slots)
}

// Slot returns the slot at index i.
func (a *SlotArray) Slot(i int) *Slot {
	return a.slots[i]
}

// Arbitrate latches the lowest-index loaded slot as the current slot.
// It returns false, clearing the latch, when no slot is loaded.
func (a *SlotArray) Arbitrate() bool {
	for i, s := range a.slots {
		if s.Status() == SlotLoaded {
			a.current = i
			return true
		}
	}

	a.current = -1

	return false
}

// Current returns the latched slot.
func (a *SlotArray) Current() (*Slot, bool) {
	if a.current < 0 {
		return nil, false
	}

	return a.slots[a.current], true
}

// CurrentIndex returns the index of the latched slot, or -1.
func (a *SlotArray) CurrentIndex() int {
	return a.current
}

// CurrentValid reports whether the latched slot is still loaded. The
// consumer may release a slot at any time, which invalidates the latch.
func (a *SlotArray) CurrentValid() bool {
	if a.current < 0 {
		return false
	}

	return a.slots[a.current].Status() == SlotLoaded
}

// Complete marks the latched slot as pending, records the last word
// address written, and clears the latch. It returns the index of the
// completed slot.
func (a *SlotArray) Complete(addressReached uint64) int {
	if a.current < 0 {
		panic("completing a frame without a latched slot")
	}

	idx := a.current
	a.slots[idx].complete(addressReached)
	a.current = -1

	return idx
}
