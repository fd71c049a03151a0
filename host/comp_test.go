package host_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vcaplab/framecap/framedma"
	"github.com/vcaplab/framecap/host"
	"github.com/vcaplab/framecap/mem"
	"github.com/vcaplab/framecap/memctrl"
	"github.com/vcaplab/framecap/pixelsrc"
	"github.com/vcaplab/framecap/sim"
)

var _ = Describe("Comp", func() {
	const frameWords = 16

	var (
		engine *sim.SerialEngine
		agent  *host.Comp
		dma    *framedma.Comp
		src    *pixelsrc.Comp
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()

		mc := memctrl.MakeBuilder().
			WithEngine(engine).
			WithFreq(100 * sim.MHz).
			WithLatency(5).
			WithNewStorage(1 * mem.MB).
			Build("MemCtrl")

		dma = framedma.MakeBuilder().
			WithEngine(engine).
			WithFreq(100 * sim.MHz).
			WithNumSlots(2).
			WithFrameWordCount(frameWords).
			WithMemDst(mc.TopPort().AsRemote()).
			WithNotifyDst("Host.CtrlPort").
			Build("DMA")

		agent = host.MakeBuilder().
			WithEngine(engine).
			WithFreq(100 * sim.MHz).
			WithDMACtrl(dma.CtrlPort().AsRemote()).
			WithMemDst(mc.TopPort().AsRemote()).
			WithSlotBases([]uint64{0x1000, 0x1100}).
			WithFramesWanted(2).
			WithReadBack().
			Build("Host")

		src = pixelsrc.MakeBuilder().
			WithEngine(engine).
			WithFreq(100 * sim.MHz).
			WithDst(dma.PixelPort().AsRemote()).
			WithFrameWordCount(frameWords).
			WithGapCycles(32).
			WithMaxFrames(5).
			Build("Src")

		conn := sim.NewDirectConnection("Conn", engine, 100*sim.MHz)
		conn.PlugIn(src.OutPort())
		conn.PlugIn(dma.PixelPort())
		conn.PlugIn(dma.MemPort())
		conn.PlugIn(dma.CtrlPort())
		conn.PlugIn(agent.CtrlPort())
		conn.PlugIn(agent.MemPort())
		conn.PlugIn(mc.TopPort())
	})

	It("should capture the wanted number of frames", func() {
		err := engine.Run()
		Expect(err).To(BeNil())

		Expect(agent.FramesSeen()).To(Equal(uint64(2)))
		Expect(agent.Frames()).To(HaveLen(2))
	})

	It("should read back internally consistent frames", func() {
		err := engine.Run()
		Expect(err).To(BeNil())

		for _, frame := range agent.Frames() {
			Expect(frame).To(HaveLen(frameWords * 8))

			frameID := binary.LittleEndian.Uint64(frame[:8]) >> 32
			for w := 0; w < frameWords; w++ {
				word := binary.LittleEndian.Uint64(frame[w*8 : w*8+8])
				Expect(word >> 32).To(Equal(frameID))
				Expect(word & 0xFFFFFFFF).To(Equal(uint64(w)))
			}
		}
	})

	It("should report complete frames in the notices", func() {
		err := engine.Run()
		Expect(err).To(BeNil())

		for _, notice := range agent.Notices() {
			Expect(notice.AddressReached - notice.BaseAddress).
				To(Equal(uint64(frameWords - 1)))
			Expect(notice.WordCount).To(Equal(uint64(frameWords)))
		}
	})
})
