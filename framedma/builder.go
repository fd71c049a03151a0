package framedma

import (
	"github.com/vcaplab/framecap/mem"
	"github.com/vcaplab/framecap/sim"
)

// Builder can build frame capture DMA engines.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq

	numSlots       int
	frameWordCount uint64
	wordBytes      uint64

	memDst    sim.RemotePort
	notifyDst sim.RemotePort

	manualStart bool

	pixelBufSize int
	memBufSize   int
	ctrlBufSize  int
}

// MakeBuilder returns a new Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:         100 * sim.MHz,
		numSlots:     2,
		wordBytes:    8,
		pixelBufSize: 16,
		memBufSize:   16,
		ctrlBufSize:  4,
	}
}

// WithEngine sets the engine of the DMA engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the DMA engine.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithNumSlots sets the number of hand-off slots.
func (b Builder) WithNumSlots(n int) Builder {
	b.numSlots = n
	return b
}

// WithFrameWordCount sets the number of memory words in one frame.
func (b Builder) WithFrameWordCount(n uint64) Builder {
	b.frameWordCount = n
	return b
}

// WithWordBytes sets the number of bytes a pixel word occupies in
// memory. Word addresses are multiplied by this granularity when writes
// are issued.
func (b Builder) WithWordBytes(n uint64) Builder {
	b.wordBytes = n
	return b
}

// WithMemDst sets the remote port of the memory controller that drains
// the pixel writes.
func (b Builder) WithMemDst(dst sim.RemotePort) Builder {
	b.memDst = dst
	return b
}

// WithNotifyDst sets the remote port that receives frame done notices.
// Without a notify destination the engine only reports completions
// through hooks and slot status.
func (b Builder) WithNotifyDst(dst sim.RemotePort) Builder {
	b.notifyDst = dst
	return b
}

// WithManualStart makes the engine wait for an explicit start trigger
// before each frame.
func (b Builder) WithManualStart() Builder {
	b.manualStart = true
	return b
}

// WithPixelBufSize sets the size of the pixel port incoming buffer.
func (b Builder) WithPixelBufSize(n int) Builder {
	b.pixelBufSize = n
	return b
}

// WithMemBufSize sets the size of the mem port buffers. It bounds the
// number of outstanding writes.
func (b Builder) WithMemBufSize(n int) Builder {
	b.memBufSize = n
	return b
}

// Build builds a new Comp.
func (b Builder) Build(name string) *Comp {
	b.mustBeValid()

	c := &Comp{
		memDst:         b.memDst,
		notifyDst:      b.notifyDst,
		slots:          NewSlotArray(b.numSlots),
		frameWordCount: b.frameWordCount,
		wordBytes:      b.wordBytes,
		manualStart:    b.manualStart,
		inflightWrites: make(map[string]*mem.WriteReq),
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.pixelPort = sim.NewPort(c, b.pixelBufSize, 1, name+".PixelPort")
	c.memPort = sim.NewPort(c, b.memBufSize, b.memBufSize, name+".MemPort")
	c.ctrlPort = sim.NewPort(c, b.ctrlBufSize, b.ctrlBufSize, name+".CtrlPort")

	c.AddPort("Pixel", c.pixelPort)
	c.AddPort("Mem", c.memPort)
	c.AddPort("Ctrl", c.ctrlPort)

	return c
}

func (b Builder) mustBeValid() {
	if b.numSlots <= 0 {
		panic("the DMA engine needs at least one slot")
	}

	if b.frameWordCount == 0 {
		panic("the frame word count is not set")
	}

	if b.wordBytes == 0 || b.wordBytes > 8 {
		panic("the word granularity must be between 1 and 8 bytes")
	}

	if b.memDst == "" {
		panic("the memory destination is not set")
	}
}
