package cdc

import (
	"github.com/vcaplab/framecap/sim"
)

// A Bridge moves messages between two clock domains through a bounded
// ring. The write side accepts messages at the ingress frequency, the
// read side re-emits them at the egress frequency. Messages come out in
// arrival order, exactly once, with the destination rewritten to the
// configured egress target.
type Bridge struct {
	ring *Ring[sim.Msg]

	in  *bridgeSide
	out *bridgeSide
}

// InPort returns the port of the ingress clock domain.
func (b *Bridge) InPort() sim.Port {
	return b.in.port
}

// OutPort returns the port of the egress clock domain.
func (b *Bridge) OutPort() sim.Port {
	return b.out.port
}

type bridgeSide struct {
	*sim.TickingComponent

	bridge *Bridge
	port   sim.Port
	drain  bool
	dst    sim.RemotePort

	held sim.Msg
}

func (s *bridgeSide) Tick() bool {
	if s.drain {
		return s.tickEgress()
	}

	return s.tickIngress()
}

func (s *bridgeSide) tickIngress() bool {
	msg := s.port.PeekIncoming()
	if msg == nil {
		return false
	}

	if !s.bridge.ring.Push(msg) {
		return false
	}

	s.port.RetrieveIncoming()
	s.bridge.out.TickLater()

	return true
}

func (s *bridgeSide) tickEgress() bool {
	if s.held == nil {
		msg, ok := s.bridge.ring.Pop()
		if !ok {
			return false
		}

		s.held = msg.Clone()
		s.held.Meta().Src = s.port.AsRemote()
		s.held.Meta().Dst = s.dst

		// Popping freed a ring entry, so a stalled ingress side can
		// move again.
		s.bridge.in.TickLater()
	}

	if err := s.port.Send(s.held); err != nil {
		return false
	}

	s.held = nil

	return true
}

// Builder can build clock domain bridges.
type Builder struct {
	engine   sim.Engine
	inFreq   sim.Freq
	outFreq  sim.Freq
	capacity int
	dst      sim.RemotePort
	bufSize  int
}

// MakeBuilder returns a new Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		inFreq:   150 * sim.MHz,
		outFreq:  100 * sim.MHz,
		capacity: 32,
		bufSize:  4,
	}
}

// WithEngine sets the engine of the bridge.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithInFreq sets the ingress clock frequency.
func (b Builder) WithInFreq(freq sim.Freq) Builder {
	b.inFreq = freq
	return b
}

// WithOutFreq sets the egress clock frequency.
func (b Builder) WithOutFreq(freq sim.Freq) Builder {
	b.outFreq = freq
	return b
}

// WithCapacity sets the depth of the crossing ring.
func (b Builder) WithCapacity(n int) Builder {
	b.capacity = n
	return b
}

// WithDst sets the remote port that receives the bridged messages.
func (b Builder) WithDst(dst sim.RemotePort) Builder {
	b.dst = dst
	return b
}

// Build builds a new Bridge.
func (b Builder) Build(name string) *Bridge {
	if b.dst == "" {
		panic("the bridge destination is not set")
	}

	bridge := &Bridge{
		ring: NewRing[sim.Msg](b.capacity),
	}

	in := &bridgeSide{bridge: bridge}
	in.TickingComponent = sim.NewTickingComponent(
		name+".In", b.engine, b.inFreq, in)
	in.port = sim.NewPort(in, b.bufSize, 1, name+".InPort")
	in.AddPort("In", in.port)

	out := &bridgeSide{bridge: bridge, drain: true, dst: b.dst}
	out.TickingComponent = sim.NewTickingComponent(
		name+".Out", b.engine, b.outFreq, out)
	out.port = sim.NewPort(out, 1, b.bufSize, name+".OutPort")
	out.AddPort("Out", out.port)

	bridge.in = in
	bridge.out = out

	return bridge
}
