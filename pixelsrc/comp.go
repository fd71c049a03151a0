// Package pixelsrc provides a test pattern generator that feeds the
// capture pipeline with a deterministic pixel stream.
package pixelsrc

import (
	"github.com/vcaplab/framecap/framedma"
	"github.com/vcaplab/framecap/sim"
)

// A Pattern computes the pixel word at a position of the stream.
type Pattern func(frame, word uint64) uint64

// Counter encodes the frame and word index into the word itself, which
// makes captured frames easy to check.
func Counter(frame, word uint64) uint64 {
	return frame<<32 | word
}

// ColorBars returns a pattern that paints eight vertical bars per line,
// in the usual white-to-black order, as packed RGB888 words.
func ColorBars(wordsPerLine uint64) Pattern {
	colors := [8]uint64{
		0xFFFFFF, 0xFFFF00, 0x00FFFF, 0x00FF00,
		0xFF00FF, 0xFF0000, 0x0000FF, 0x000000,
	}

	return func(_, word uint64) uint64 {
		x := word % wordsPerLine
		bar := x * 8 / wordsPerLine

		return colors[bar]
	}
}

// Gradient returns a pattern that ramps brightness along each line. A
// line needs at least two words to ramp over.
func Gradient(wordsPerLine uint64) Pattern {
	if wordsPerLine < 2 {
		panic("a gradient line needs at least two words")
	}

	return func(_, word uint64) uint64 {
		x := word % wordsPerLine
		v := x * 255 / (wordsPerLine - 1)

		return v<<16 | v<<8 | v
	}
}

// Comp generates frames of pixel words, one word per cycle, with a
// blanking gap between frames. The stream does not wait for the
// receiver; back pressure on the output port stalls the generator,
// which mimics a front end FIFO.
type Comp struct {
	*sim.TickingComponent

	port sim.Port
	dst  sim.RemotePort

	pattern        Pattern
	frameWordCount uint64
	gapCycles      int
	maxFrames      uint64

	frame        uint64
	word         uint64
	gapRemaining int
}

// OutPort returns the port that emits the pixel stream.
func (c *Comp) OutPort() sim.Port {
	return c.port
}

// FramesSent returns the number of frames fully emitted.
func (c *Comp) FramesSent() uint64 {
	return c.frame
}

// Tick emits at most one pixel word.
func (c *Comp) Tick() bool {
	if c.frame >= c.maxFrames {
		return false
	}

	if c.gapRemaining > 0 {
		c.gapRemaining--
		return true
	}

	if !c.port.CanSend() {
		return false
	}

	builder := framedma.PixelWordBuilder{}.
		WithSrc(c.port.AsRemote()).
		WithDst(c.dst).
		WithData(c.pattern(c.frame, c.word))
	if c.word == 0 {
		builder = builder.WithSOF()
	}
	c.port.Send(builder.Build())

	c.word++
	if c.word == c.frameWordCount {
		c.word = 0
		c.frame++
		c.gapRemaining = c.gapCycles
	}

	return true
}

// Builder can build pixel sources.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq

	dst            sim.RemotePort
	pattern        Pattern
	frameWordCount uint64
	gapCycles      int
	maxFrames      uint64
	outBufSize     int
}

// MakeBuilder returns a new Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:       150 * sim.MHz,
		pattern:    Counter,
		gapCycles:  8,
		maxFrames:  1,
		outBufSize: 4,
	}
}

// WithEngine sets the engine of the pixel source.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the pixel clock frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithDst sets the remote port that receives the pixel stream.
func (b Builder) WithDst(dst sim.RemotePort) Builder {
	b.dst = dst
	return b
}

// WithPattern sets the test pattern.
func (b Builder) WithPattern(p Pattern) Builder {
	b.pattern = p
	return b
}

// WithFrameWordCount sets the number of words per frame.
func (b Builder) WithFrameWordCount(n uint64) Builder {
	b.frameWordCount = n
	return b
}

// WithGapCycles sets the blanking gap, in cycles, between frames.
func (b Builder) WithGapCycles(n int) Builder {
	b.gapCycles = n
	return b
}

// WithMaxFrames sets how many frames to emit before going idle.
func (b Builder) WithMaxFrames(n uint64) Builder {
	b.maxFrames = n
	return b
}

// Build builds a new Comp.
func (b Builder) Build(name string) *Comp {
	if b.frameWordCount == 0 {
		panic("the frame word count is not set")
	}

	if b.dst == "" {
		panic("the pixel stream destination is not set")
	}

	c := &Comp{
		dst:            b.dst,
		pattern:        b.pattern,
		frameWordCount: b.frameWordCount,
		gapCycles:      b.gapCycles,
		maxFrames:      b.maxFrames,
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.port = sim.NewPort(c, 1, b.outBufSize, name+".OutPort")
	c.AddPort("Out", c.port)

	// The source is self-driven, so it needs the first kick.
	c.TickLater()

	return c
}
