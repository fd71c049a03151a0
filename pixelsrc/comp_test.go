package pixelsrc

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vcaplab/framecap/framedma"
	"github.com/vcaplab/framecap/sim"
)

type streamSink struct {
	*sim.TickingComponent

	port  sim.Port
	words []*framedma.PixelWord
}

func newStreamSink(engine sim.Engine) *streamSink {
	s := &streamSink{}
	s.TickingComponent = sim.NewTickingComponent(
		"Sink", engine, 150*sim.MHz, s)
	s.port = sim.NewPort(s, 4, 1, "Sink.Port")
	s.AddPort("In", s.port)

	return s
}

func (s *streamSink) Tick() bool {
	msg := s.port.RetrieveIncoming()
	if msg == nil {
		return false
	}

	s.words = append(s.words, msg.(*framedma.PixelWord))

	return true
}

var _ = Describe("Comp", func() {
	var (
		engine *sim.SerialEngine
		sink   *streamSink
		src    *Comp
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		sink = newStreamSink(engine)
		src = MakeBuilder().
			WithEngine(engine).
			WithFreq(150 * sim.MHz).
			WithDst(sink.port.AsRemote()).
			WithFrameWordCount(4).
			WithMaxFrames(2).
			Build("Src")

		conn := sim.NewDirectConnection("Conn", engine, 150*sim.MHz)
		conn.PlugIn(src.OutPort())
		conn.PlugIn(sink.port)
	})

	It("should emit the configured number of frames", func() {
		err := engine.Run()
		Expect(err).To(BeNil())

		Expect(sink.words).To(HaveLen(8))
		Expect(src.FramesSent()).To(Equal(uint64(2)))
	})

	It("should mark only the first word of each frame", func() {
		err := engine.Run()
		Expect(err).To(BeNil())

		for i, w := range sink.words {
			Expect(w.SOF).To(Equal(i%4 == 0), "word %d", i)
		}
	})

	It("should encode the frame and word index in counter mode", func() {
		err := engine.Run()
		Expect(err).To(BeNil())

		for i, w := range sink.words {
			frame := uint64(i / 4)
			word := uint64(i % 4)
			Expect(w.Data).To(Equal(frame<<32 | word))
		}
	})
})

var _ = Describe("Pattern", func() {
	It("should paint eight bars per line", func() {
		pattern := ColorBars(8)

		Expect(pattern(0, 0)).To(Equal(uint64(0xFFFFFF)))
		Expect(pattern(0, 3)).To(Equal(uint64(0x00FF00)))
		Expect(pattern(0, 7)).To(Equal(uint64(0x000000)))
		Expect(pattern(1, 8)).To(Equal(uint64(0xFFFFFF)))
	})

	It("should ramp the gradient from black to white", func() {
		pattern := Gradient(256)

		Expect(pattern(0, 0)).To(Equal(uint64(0)))
		Expect(pattern(0, 255)).To(Equal(uint64(0xFFFFFF)))
	})

	It("should reject a gradient line shorter than two words", func() {
		Expect(func() { Gradient(1) }).To(Panic())
	})
})
