package framedma

import (
	"encoding/binary"
	"log"
	"reflect"

	"github.com/vcaplab/framecap/mem"
	"github.com/vcaplab/framecap/sim"
)

// HookPosFrameDone marks the completion of a frame, after every word of
// the frame has been acknowledged by the memory controller. The hook
// item is a FrameDoneInfo.
var HookPosFrameDone = &sim.HookPos{Name: "Frame Done"}

// HookPosFrameDrop marks a start-of-frame word that was discarded
// because no slot was armed. The hook item is the dropped PixelWord.
var HookPosFrameDrop = &sim.HookPos{Name: "Frame Drop"}

// FrameDoneInfo records the completion of one frame.
type FrameDoneInfo struct {
	SlotIndex      int
	FrameID        uint64
	BaseAddress    uint64
	AddressReached uint64
	WordCount      uint64
}

type engineState int

const (
	stateWaitSOF engineState = iota
	stateTransferPixels
	stateEOF
)

func (s engineState) String() string {
	switch s {
	case stateWaitSOF:
		return "wait-sof"
	case stateTransferPixels:
		return "transfer-pixels"
	case stateEOF:
		return "eof"
	}

	return "invalid"
}

// Comp is the frame capture DMA engine. It consumes pixel words on the
// pixel port, writes them to memory through the mem port, and reports
// frame completions on the ctrl port.
//
// The input stream is lossy. Words that arrive while no slot is armed
// are discarded, so a slow consumer drops whole frames instead of
// stalling the capture front end.
type Comp struct {
	*sim.TickingComponent

	pixelPort sim.Port
	memPort   sim.Port
	ctrlPort  sim.Port

	memDst    sim.RemotePort
	notifyDst sim.RemotePort

	slots   *SlotArray
	addrGen AddressGenerator

	frameWordCount uint64
	wordBytes      uint64

	manualStart bool
	startArmed  bool

	state          engineState
	inflightWrites map[string]*mem.WriteReq

	framesDone         uint64
	framesDropped      uint64
	lastAddressReached uint64
}

// PixelPort returns the port that accepts the pixel stream.
func (c *Comp) PixelPort() sim.Port {
	return c.pixelPort
}

// MemPort returns the port that issues memory writes.
func (c *Comp) MemPort() sim.Port {
	return c.memPort
}

// CtrlPort returns the port that accepts control requests and emits
// frame done notices.
func (c *Comp) CtrlPort() sim.Port {
	return c.ctrlPort
}

// SlotCount returns the number of hand-off slots.
func (c *Comp) SlotCount() int {
	return c.slots.Len()
}

// ArmSlot points a slot at a frame buffer and arms it. It serves
// in-process consumers; remote consumers send an ArmSlotReq instead.
func (c *Comp) ArmSlot(i int, targetAddress uint64) {
	slot := c.slots.Slot(i)
	slot.SetTargetAddress(targetAddress)
	slot.Arm()
	c.TickLater()
}

// ReleaseSlot withdraws a slot from the engine.
func (c *Comp) ReleaseSlot(i int) {
	c.slots.Slot(i).Release()
}

// SlotStatus returns the state of a slot and the last word address
// written to it.
func (c *Comp) SlotStatus(i int) (SlotStatus, uint64) {
	slot := c.slots.Slot(i)
	return slot.Status(), slot.AddressReached()
}

// SetFrameWordCount changes the number of words per frame. The new
// length takes effect at the start of the next frame.
func (c *Comp) SetFrameWordCount(n uint64) {
	if n == 0 {
		panic("frame word count must be positive")
	}

	c.frameWordCount = n
}

// FrameWordCount returns the number of words per frame.
func (c *Comp) FrameWordCount() uint64 {
	return c.frameWordCount
}

// Start arms the manual start trigger. The engine only begins a frame
// while the trigger is set, and the trigger clears after one frame
// drains. A frame whose first word arrives with a slot armed but the
// trigger unset stalls on the pixel port and is captured once Start is
// called. Start has no effect on an engine not built in manual start
// mode.
func (c *Comp) Start() {
	c.startArmed = true
	c.TickLater()
}

// Running reports whether the engine is in the middle of a frame.
func (c *Comp) Running() bool {
	return c.state != stateWaitSOF
}

// LastAddressReached returns the last word address written by the most
// recently drained frame.
func (c *Comp) LastAddressReached() uint64 {
	return c.lastAddressReached
}

// FramesDone returns the number of frames fully drained to memory.
func (c *Comp) FramesDone() uint64 {
	return c.framesDone
}

// FramesDropped returns the number of frames discarded because no slot
// was armed when their first word arrived.
func (c *Comp) FramesDropped() uint64 {
	return c.framesDropped
}

// Tick updates the engine state.
func (c *Comp) Tick() bool {
	madeProgress := false

	madeProgress = c.processCtrlMsgs() || madeProgress
	madeProgress = c.collectWriteRsps() || madeProgress

	switch c.state {
	case stateWaitSOF:
		madeProgress = c.waitSOF() || madeProgress
	case stateTransferPixels:
		madeProgress = c.transferPixels() || madeProgress
	case stateEOF:
		madeProgress = c.finishFrame() || madeProgress
	}

	return madeProgress
}

func (c *Comp) processCtrlMsgs() bool {
	msg := c.ctrlPort.PeekIncoming()
	if msg == nil {
		return false
	}

	switch msg := msg.(type) {
	case *ArmSlotReq:
		slot := c.slots.Slot(msg.SlotIndex)
		slot.SetTargetAddress(msg.TargetAddress)
		slot.Arm()
	case *StartReq:
		c.startArmed = true
	case *SlotStatusReq:
		if !c.respondSlotStatus(msg) {
			return false
		}
	default:
		log.Panicf("cannot handle ctrl request of type %s",
			reflect.TypeOf(msg))
	}

	c.ctrlPort.RetrieveIncoming()

	return true
}

func (c *Comp) respondSlotStatus(req *SlotStatusReq) bool {
	if !c.ctrlPort.CanSend() {
		return false
	}

	slot := c.slots.Slot(req.SlotIndex)
	rsp := SlotStatusRspBuilder{}.
		WithSrc(c.ctrlPort.AsRemote()).
		WithDst(req.Src).
		WithRspTo(req.ID).
		WithSlotIndex(req.SlotIndex).
		WithStatus(slot.Status()).
		WithAddressReached(slot.AddressReached()).
		Build()
	c.ctrlPort.Send(rsp)

	return true
}

func (c *Comp) collectWriteRsps() bool {
	msg := c.memPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	rsp, ok := msg.(*mem.WriteDoneRsp)
	if !ok {
		log.Panicf("cannot handle mem response of type %s",
			reflect.TypeOf(msg))
	}

	if _, found := c.inflightWrites[rsp.RespondTo]; !found {
		panic("write response does not match an outstanding request")
	}

	delete(c.inflightWrites, rsp.RespondTo)

	return true
}

func (c *Comp) waitSOF() bool {
	if !c.slots.CurrentValid() {
		c.slots.Arbitrate()
	}

	msg := c.pixelPort.PeekIncoming()
	if msg == nil {
		return false
	}

	word := msg.(*PixelWord)

	slot, slotReady := c.slots.Current()
	canStart := slotReady && word.SOF

	if canStart && c.manualStart && !c.startArmed {
		// A startable frame waits on the pixel port until the trigger
		// is set, so it is captured rather than lost.
		return false
	}

	if !canStart {
		c.pixelPort.RetrieveIncoming()

		if word.SOF {
			c.framesDropped++
			c.InvokeHook(sim.HookCtx{
				Domain: c,
				Pos:    HookPosFrameDrop,
				Item:   word,
			})
		}

		return true
	}

	c.addrGen.Reset(slot.TargetAddress(), c.frameWordCount)
	c.state = stateTransferPixels

	return true
}

func (c *Comp) transferPixels() bool {
	madeProgress := false

	for c.state == stateTransferPixels {
		msg := c.pixelPort.PeekIncoming()
		if msg == nil {
			break
		}

		if !c.memPort.CanSend() {
			break
		}

		word := msg.(*PixelWord)
		c.issueWrite(word)
		c.pixelPort.RetrieveIncoming()

		last := c.addrGen.IsLastWord()
		c.addrGen.Advance()
		madeProgress = true

		if last {
			c.state = stateEOF
		}
	}

	return madeProgress
}

func (c *Comp) issueWrite(word *PixelWord) {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, word.Data)

	req := mem.WriteReqBuilder{}.
		WithSrc(c.memPort.AsRemote()).
		WithDst(c.memDst).
		WithAddress(c.addrGen.CurrentAddress() * c.wordBytes).
		WithData(data[:c.wordBytes]).
		Build()
	c.memPort.Send(req)

	c.inflightWrites[req.ID] = req
}

// finishFrame waits for the memory controller to acknowledge every word
// of the frame, then hands the slot over. Pixel words that arrive during
// the drain stay queued on the pixel port.
func (c *Comp) finishFrame() bool {
	if len(c.inflightWrites) > 0 {
		return false
	}

	if c.notifyDst != "" && !c.ctrlPort.CanSend() {
		return false
	}

	slot, _ := c.slots.Current()
	baseAddress := slot.TargetAddress()
	addressReached := c.addrGen.CurrentAddress() - 1
	slotIndex := c.slots.Complete(addressReached)

	c.framesDone++
	c.lastAddressReached = addressReached
	c.startArmed = false
	c.state = stateWaitSOF

	info := FrameDoneInfo{
		SlotIndex:      slotIndex,
		FrameID:        c.framesDone,
		BaseAddress:    baseAddress,
		AddressReached: addressReached,
		WordCount:      c.frameWordCount,
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosFrameDone,
		Item:   info,
	})

	if c.notifyDst != "" {
		notice := FrameDoneNoticeBuilder{}.
			WithSrc(c.ctrlPort.AsRemote()).
			WithDst(c.notifyDst).
			WithInfo(info).
			Build()
		c.ctrlPort.Send(notice)
	}

	return true
}
