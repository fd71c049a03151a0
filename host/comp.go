// Package host models the software side of the capture pipeline. The
// agent arms the hand-off slots with frame buffer addresses, waits for
// completion notices, reads captured frames back from memory, and
// re-arms the slots for the next frames.
package host

import (
	"log"
	"reflect"

	"github.com/vcaplab/framecap/framedma"
	"github.com/vcaplab/framecap/mem"
	"github.com/vcaplab/framecap/sim"
)

// Comp is the consumer agent.
type Comp struct {
	*sim.TickingComponent

	ctrlPort sim.Port
	memPort  sim.Port

	dmaCtrl sim.RemotePort
	memDst  sim.RemotePort

	slotBases    []uint64
	wordBytes    uint64
	framesWanted uint64
	readBack     bool

	armQueue        []int
	framesRequested uint64
	framesSeen      uint64

	notices      []framedma.FrameDoneInfo
	frames       [][]byte
	pendingReads map[string]framedma.FrameDoneInfo
}

// CtrlPort returns the port that talks to the DMA engine.
func (c *Comp) CtrlPort() sim.Port {
	return c.ctrlPort
}

// MemPort returns the port that reads frames back from memory.
func (c *Comp) MemPort() sim.Port {
	return c.memPort
}

// Notices returns the completion notices received so far.
func (c *Comp) Notices() []framedma.FrameDoneInfo {
	return c.notices
}

// Frames returns the frame payloads read back from memory.
func (c *Comp) Frames() [][]byte {
	return c.frames
}

// FramesSeen returns the number of completion notices received.
func (c *Comp) FramesSeen() uint64 {
	return c.framesSeen
}

// Tick updates the agent state.
func (c *Comp) Tick() bool {
	madeProgress := c.armSlots()
	madeProgress = c.processCtrlMsgs() || madeProgress
	madeProgress = c.processMemRsps() || madeProgress

	return madeProgress
}

// armSlots sends one arm request per cycle until every queued slot is
// armed or enough frames have been requested.
func (c *Comp) armSlots() bool {
	if len(c.armQueue) == 0 {
		return false
	}

	if c.framesRequested >= c.framesWanted {
		return false
	}

	if !c.ctrlPort.CanSend() {
		return false
	}

	slot := c.armQueue[0]
	req := framedma.ArmSlotReqBuilder{}.
		WithSrc(c.ctrlPort.AsRemote()).
		WithDst(c.dmaCtrl).
		WithSlotIndex(slot).
		WithTargetAddress(c.slotBases[slot]).
		Build()
	c.ctrlPort.Send(req)

	c.armQueue = c.armQueue[1:]
	c.framesRequested++

	return true
}

func (c *Comp) processCtrlMsgs() bool {
	msg := c.ctrlPort.PeekIncoming()
	if msg == nil {
		return false
	}

	notice, ok := msg.(*framedma.FrameDoneNotice)
	if !ok {
		log.Panicf("cannot handle ctrl message of type %s",
			reflect.TypeOf(msg))
	}

	if c.readBack {
		if !c.memPort.CanSend() {
			return false
		}

		req := mem.ReadReqBuilder{}.
			WithSrc(c.memPort.AsRemote()).
			WithDst(c.memDst).
			WithAddress(notice.BaseAddress * c.wordBytes).
			WithByteSize(notice.WordCount * c.wordBytes).
			Build()
		c.memPort.Send(req)
		c.pendingReads[req.ID] = notice.FrameDoneInfo
	} else {
		c.armQueue = append(c.armQueue, notice.SlotIndex)
	}

	c.notices = append(c.notices, notice.FrameDoneInfo)
	c.framesSeen++
	c.ctrlPort.RetrieveIncoming()

	return true
}

// processMemRsps collects read-back data. The slot is only re-armed
// after its frame has been copied out, so the engine can never
// overwrite a frame the agent still needs.
func (c *Comp) processMemRsps() bool {
	msg := c.memPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	rsp, ok := msg.(*mem.DataReadyRsp)
	if !ok {
		log.Panicf("cannot handle mem response of type %s",
			reflect.TypeOf(msg))
	}

	info, found := c.pendingReads[rsp.RespondTo]
	if !found {
		panic("read response does not match an outstanding request")
	}

	delete(c.pendingReads, rsp.RespondTo)
	c.frames = append(c.frames, rsp.Data)
	c.armQueue = append(c.armQueue, info.SlotIndex)

	return true
}

// Builder can build consumer agents.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq

	dmaCtrl sim.RemotePort
	memDst  sim.RemotePort

	slotBases    []uint64
	wordBytes    uint64
	framesWanted uint64
	readBack     bool

	bufSize int
}

// MakeBuilder returns a new Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:      100 * sim.MHz,
		wordBytes: 8,
		bufSize:   4,
	}
}

// WithEngine sets the engine of the agent.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the agent.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithDMACtrl sets the remote ctrl port of the DMA engine.
func (b Builder) WithDMACtrl(dst sim.RemotePort) Builder {
	b.dmaCtrl = dst
	return b
}

// WithMemDst sets the remote port of the memory controller used for
// frame read-back.
func (b Builder) WithMemDst(dst sim.RemotePort) Builder {
	b.memDst = dst
	return b
}

// WithSlotBases sets the base word address of the frame buffer behind
// each slot. The slice length determines how many slots the agent arms.
func (b Builder) WithSlotBases(bases []uint64) Builder {
	b.slotBases = bases
	return b
}

// WithWordBytes sets the memory granularity of one pixel word.
func (b Builder) WithWordBytes(n uint64) Builder {
	b.wordBytes = n
	return b
}

// WithFramesWanted sets how many frames the agent captures before it
// stops re-arming slots.
func (b Builder) WithFramesWanted(n uint64) Builder {
	b.framesWanted = n
	return b
}

// WithReadBack makes the agent read every completed frame back from
// memory before re-arming its slot.
func (b Builder) WithReadBack() Builder {
	b.readBack = true
	return b
}

// Build builds a new Comp.
func (b Builder) Build(name string) *Comp {
	if b.dmaCtrl == "" {
		panic("the DMA ctrl destination is not set")
	}

	if len(b.slotBases) == 0 {
		panic("no slot bases are given")
	}

	if b.framesWanted == 0 {
		panic("the number of frames wanted is not set")
	}

	if b.readBack && b.memDst == "" {
		panic("read-back needs a memory destination")
	}

	c := &Comp{
		dmaCtrl:      b.dmaCtrl,
		memDst:       b.memDst,
		slotBases:    b.slotBases,
		wordBytes:    b.wordBytes,
		framesWanted: b.framesWanted,
		readBack:     b.readBack,
		pendingReads: make(map[string]framedma.FrameDoneInfo),
	}

	for i := range b.slotBases {
		c.armQueue = append(c.armQueue, i)
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.ctrlPort = sim.NewPort(c, b.bufSize, b.bufSize, name+".CtrlPort")
	c.memPort = sim.NewPort(c, b.bufSize, b.bufSize, name+".MemPort")
	c.AddPort("Ctrl", c.ctrlPort)
	c.AddPort("Mem", c.memPort)

	// The agent starts by arming the slots, so it needs the first kick.
	c.TickLater()

	return c
}
