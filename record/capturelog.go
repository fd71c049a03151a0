package record

import (
	"github.com/vcaplab/framecap/framedma"
	"github.com/vcaplab/framecap/sim"
)

// A FrameEntry is one row of the frame completion table.
type FrameEntry struct {
	Time           float64
	FrameID        uint64
	SlotIndex      int
	BaseAddress    uint64
	AddressReached uint64
	WordCount      uint64
}

// A DropEntry is one row of the frame drop table.
type DropEntry struct {
	Time float64
	Data uint64
}

const (
	frameTableName = "frame_done"
	dropTableName  = "frame_drop"
)

// A CaptureLogger is a hook that records frame completions and drops of
// a DMA engine into the database.
type CaptureLogger struct {
	sim.TimeTeller

	recorder Recorder
}

// NewCaptureLogger creates a CaptureLogger and prepares its tables.
// Attach it to a framedma.Comp with AcceptHook.
func NewCaptureLogger(
	recorder Recorder,
	timeTeller sim.TimeTeller,
) *CaptureLogger {
	l := &CaptureLogger{
		TimeTeller: timeTeller,
		recorder:   recorder,
	}

	recorder.CreateTable(frameTableName, FrameEntry{})
	recorder.CreateTable(dropTableName, DropEntry{})

	return l
}

// Func records completions and drops, and ignores every other hook
// position.
func (l *CaptureLogger) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case framedma.HookPosFrameDone:
		info := ctx.Item.(framedma.FrameDoneInfo)
		l.recorder.InsertData(frameTableName, FrameEntry{
			Time:           float64(l.CurrentTime()),
			FrameID:        info.FrameID,
			SlotIndex:      info.SlotIndex,
			BaseAddress:    info.BaseAddress,
			AddressReached: info.AddressReached,
			WordCount:      info.WordCount,
		})
	case framedma.HookPosFrameDrop:
		word := ctx.Item.(*framedma.PixelWord)
		l.recorder.InsertData(dropTableName, DropEntry{
			Time: float64(l.CurrentTime()),
			Data: word.Data,
		})
	}
}
