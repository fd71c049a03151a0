package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vcaplab/framecap/cdc"
	"github.com/vcaplab/framecap/framedma"
	"github.com/vcaplab/framecap/host"
	"github.com/vcaplab/framecap/mem"
	"github.com/vcaplab/framecap/memctrl"
	"github.com/vcaplab/framecap/monitoring"
	"github.com/vcaplab/framecap/pixelsrc"
	"github.com/vcaplab/framecap/record"
	"github.com/vcaplab/framecap/sim"
	"github.com/vcaplab/framecap/simulation"
)

var runFlags = struct {
	frames      uint64
	frameWords  uint64
	numSlots    int
	wordBytes   uint64
	memLatency  int
	pixelFreq   int64
	sysFreq     int64
	gapCycles   int
	pattern     string
	output      string
	monitorPort int
	noMonitor   bool
	openBrowser bool
	traceMsgs   bool
}{}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a frame capture simulation",
	Run: func(_ *cobra.Command, _ []string) {
		runCapture()
	},
}

func init() {
	// A .env file can preset the environment knobs.
	_ = godotenv.Load()

	f := runCmd.Flags()
	f.Uint64Var(&runFlags.frames, "frames", 8,
		"number of frames to capture")
	f.Uint64Var(&runFlags.frameWords, "frame-words", 640*480/2,
		"number of memory words per frame")
	f.IntVar(&runFlags.numSlots, "slots", 2,
		"number of hand-off slots")
	f.Uint64Var(&runFlags.wordBytes, "word-bytes", 8,
		"memory granularity of one pixel word")
	f.IntVar(&runFlags.memLatency, "mem-latency", 100,
		"memory controller latency, in cycles")
	f.Int64Var(&runFlags.pixelFreq, "pixel-freq", 150,
		"pixel clock frequency, in MHz")
	f.Int64Var(&runFlags.sysFreq, "sys-freq", 100,
		"system clock frequency, in MHz")
	f.IntVar(&runFlags.gapCycles, "gap", 64,
		"blanking gap between frames, in pixel cycles")
	f.StringVar(&runFlags.pattern, "pattern", "counter",
		"test pattern: counter, bars, or gradient")
	f.StringVar(&runFlags.output, "output", "",
		"output database name")
	f.IntVar(&runFlags.monitorPort, "monitor-port",
		monitorPortFromEnv(), "port of the monitoring server")
	f.BoolVar(&runFlags.noMonitor, "no-monitor", false,
		"disable the monitoring server")
	f.BoolVar(&runFlags.openBrowser, "open-browser", false,
		"open the monitoring page in the local browser")
	f.BoolVar(&runFlags.traceMsgs, "trace-msgs", false,
		"log every message crossing the DMA engine ports")

	rootCmd.AddCommand(runCmd)
}

func monitorPortFromEnv() int {
	v := os.Getenv("FRAMECAP_MONITOR_PORT")
	if v == "" {
		return 0
	}

	port, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}

	return port
}

func selectPattern(wordsPerLine uint64) pixelsrc.Pattern {
	switch runFlags.pattern {
	case "counter":
		return pixelsrc.Counter
	case "bars":
		return pixelsrc.ColorBars(wordsPerLine)
	case "gradient":
		return pixelsrc.Gradient(wordsPerLine)
	}

	fmt.Fprintf(os.Stderr, "unknown pattern %q\n", runFlags.pattern)
	os.Exit(1)

	return nil
}

//nolint:funlen // The platform wiring is one long, flat recipe.
func runCapture() {
	simBuilder := makeSimulationBuilder()
	s := simBuilder.Build()
	engine := s.GetEngine()

	pixelClock := sim.Freq(runFlags.pixelFreq) * sim.MHz
	sysClock := sim.Freq(runFlags.sysFreq) * sim.MHz

	mc := memctrl.MakeBuilder().
		WithEngine(engine).
		WithFreq(sysClock).
		WithLatency(runFlags.memLatency).
		WithNewStorage(4 * mem.GB).
		Build("MemCtrl")

	dma := framedma.MakeBuilder().
		WithEngine(engine).
		WithFreq(sysClock).
		WithNumSlots(runFlags.numSlots).
		WithFrameWordCount(runFlags.frameWords).
		WithWordBytes(runFlags.wordBytes).
		WithMemDst(mc.TopPort().AsRemote()).
		WithNotifyDst("Host.CtrlPort").
		Build("DMA")

	agent := host.MakeBuilder().
		WithEngine(engine).
		WithFreq(sysClock).
		WithDMACtrl(dma.CtrlPort().AsRemote()).
		WithMemDst(mc.TopPort().AsRemote()).
		WithSlotBases(slotBases()).
		WithWordBytes(runFlags.wordBytes).
		WithFramesWanted(runFlags.frames).
		WithReadBack().
		Build("Host")

	bridge := cdc.MakeBuilder().
		WithEngine(engine).
		WithInFreq(pixelClock).
		WithOutFreq(sysClock).
		WithDst(dma.PixelPort().AsRemote()).
		Build("Bridge")

	src := pixelsrc.MakeBuilder().
		WithEngine(engine).
		WithFreq(pixelClock).
		WithDst(bridge.InPort().AsRemote()).
		WithPattern(selectPattern(runFlags.frameWords)).
		WithFrameWordCount(runFlags.frameWords).
		WithGapCycles(runFlags.gapCycles).
		WithMaxFrames(runFlags.frames * 2).
		Build("Src")

	pixelConn := sim.NewDirectConnection("PixelConn", engine, pixelClock)
	pixelConn.PlugIn(src.OutPort())
	pixelConn.PlugIn(bridge.InPort())

	sysConn := sim.NewDirectConnection("SysConn", engine, sysClock)
	sysConn.PlugIn(bridge.OutPort())
	sysConn.PlugIn(dma.PixelPort())
	sysConn.PlugIn(dma.MemPort())
	sysConn.PlugIn(dma.CtrlPort())
	sysConn.PlugIn(agent.CtrlPort())
	sysConn.PlugIn(agent.MemPort())
	sysConn.PlugIn(mc.TopPort())

	s.RegisterComponent(mc)
	s.RegisterComponent(dma)
	s.RegisterComponent(agent)
	s.RegisterComponent(src)

	captureLog := record.NewCaptureLogger(s.GetRecorder(), engine)
	dma.AcceptHook(captureLog)

	if runFlags.traceMsgs {
		logger := log.New(os.Stderr, "", 0)
		msgLogger := sim.NewPortMsgLogger(logger, engine)
		for _, p := range dma.Ports() {
			p.AcceptHook(msgLogger)
		}
	}

	trackProgress(s, dma)

	err := engine.Run()
	if err != nil {
		log.Panic(err)
	}

	fmt.Printf("Simulated time: %.6f ms\n",
		float64(engine.CurrentTime())*1000)
	fmt.Printf("Frames captured: %d\n", agent.FramesSeen())
	fmt.Printf("Frames dropped: %d\n", dma.FramesDropped())

	s.Terminate()
}

func makeSimulationBuilder() simulation.Builder {
	simBuilder := simulation.MakeBuilder()

	if runFlags.noMonitor {
		simBuilder = simBuilder.WithoutMonitoring()
	} else if runFlags.monitorPort > 0 {
		simBuilder = simBuilder.WithMonitorPort(runFlags.monitorPort)
	}

	if runFlags.openBrowser {
		simBuilder = simBuilder.WithBrowserOpen()
	}

	if runFlags.output != "" {
		simBuilder = simBuilder.WithOutputFileName(runFlags.output)
	}

	return simBuilder
}

type progressHook struct {
	bar *monitoring.ProgressBar
}

func (h progressHook) Func(ctx sim.HookCtx) {
	if ctx.Pos == framedma.HookPosFrameDone {
		h.bar.IncrementFinished(1)
	}
}

func trackProgress(s *simulation.Simulation, dma *framedma.Comp) {
	monitor := s.GetMonitor()
	if monitor == nil {
		return
	}

	bar := monitor.CreateProgressBar("Frames", runFlags.frames)
	dma.AcceptHook(progressHook{bar: bar})
}

func slotBases() []uint64 {
	bases := make([]uint64, runFlags.numSlots)
	for i := range bases {
		bases[i] = uint64(i) * runFlags.frameWords
	}

	return bases
}
