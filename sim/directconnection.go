package sim

// DirectConnection connects ports without latency. Messages are moved from
// the outgoing buffer of the source port to the incoming buffer of the
// destination port with secondary tick events, after all the same-cycle
// component updates.
type DirectConnection struct {
	*TickingComponent
	MiddlewareHolder

	nextPortID int
	ports      []Port
}

// PlugIn marks the port connected to this DirectConnection.
func (c *DirectConnection) PlugIn(port Port) {
	c.Lock()
	defer c.Unlock()

	c.ports = append(c.ports, port)

	port.SetConnection(c)
}

// Unplug marks the port no longer connected to this DirectConnection.
func (c *DirectConnection) Unplug(_ Port) {
	panic("not implemented")
}

// NotifyAvailable is called by a port to notify that the connection can
// deliver to the port again.
func (c *DirectConnection) NotifyAvailable(p Port) {
	for _, port := range c.ports {
		if port == p {
			continue
		}

		port.NotifyAvailable()
	}

	c.TickNow()
}

// NotifySend is called by a port to notify that the connection can start
// to tick now.
func (c *DirectConnection) NotifySend() {
	c.TickNow()
}

// Tick updates the states of the connection and delivers messages.
func (c *DirectConnection) Tick() bool {
	return c.MiddlewareHolder.Tick()
}

type directConnMiddleware struct {
	*DirectConnection
}

func (m *directConnMiddleware) Tick() bool {
	madeProgress := false
	for i := 0; i < len(m.ports); i++ {
		portID := (i + m.nextPortID) % len(m.ports)
		port := m.ports[portID]
		madeProgress = m.forwardMany(port) || madeProgress
	}

	m.nextPortID = (m.nextPortID + 1) % len(m.ports)
	return madeProgress
}

func (m *directConnMiddleware) forwardMany(port Port) bool {
	madeProgress := false
	for {
		head := port.PeekOutgoing()
		if head == nil {
			break
		}

		dst := m.findPort(head.Meta().Dst)

		err := dst.Deliver(head)
		if err != nil {
			break
		}

		madeProgress = true
		port.RetrieveOutgoing()
	}

	return madeProgress
}

func (m *directConnMiddleware) findPort(remote RemotePort) Port {
	for _, port := range m.ports {
		if port.AsRemote() == remote {
			return port
		}
	}

	panic("dst is not connected to the connection")
}

// NewDirectConnection creates a new DirectConnection object.
func NewDirectConnection(
	name string,
	engine Engine,
	freq Freq,
) *DirectConnection {
	c := new(DirectConnection)
	c.TickingComponent = NewSecondaryTickingComponent(name, engine, freq, c)
	c.AddMiddleware(&directConnMiddleware{c})
	return c
}
