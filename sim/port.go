package sim

import (
	"fmt"
	"sync"
)

// HookPosPortMsgSend marks a message being sent out from a port.
var HookPosPortMsgSend = &HookPos{Name: "Port Msg Send"}

// HookPosPortMsgRecvd marks an inbound message arriving at a port.
var HookPosPortMsgRecvd = &HookPos{Name: "Port Msg Recv"}

// HookPosPortMsgRetrieveIncoming marks an inbound message being taken
// out of the incoming buffer.
var HookPosPortMsgRetrieveIncoming = &HookPos{
	Name: "Port Msg Retrieve Incoming",
}

// HookPosPortMsgRetrieveOutgoing marks an outbound message being taken
// out of the outgoing buffer.
var HookPosPortMsgRetrieveOutgoing = &HookPos{
	Name: "Port Msg Retrieve Outgoing",
}

// A RemotePort is a string that names another port.
type RemotePort string

// A Port is owned by a component and is where connections plug in.
type Port interface {
	Named
	Hookable

	AsRemote() RemotePort

	SetConnection(conn Connection)
	Component() Component

	// For the connection
	Deliver(msg Msg) *SendError
	NotifyAvailable()
	RetrieveOutgoing() Msg
	PeekOutgoing() Msg

	// For the component
	CanSend() bool
	Send(msg Msg) *SendError
	RetrieveIncoming() Msg
	PeekIncoming() Msg
}

// NewPort creates a port with bounded incoming and outgoing buffers.
func NewPort(
	comp Component,
	incomingBufCap, outgoingBufCap int,
	name string,
) Port {
	return &portImpl{
		comp:     comp,
		name:     name,
		incoming: NewBuffer(name+".IncomingBuf", incomingBufCap),
		outgoing: NewBuffer(name+".OutgoingBuf", outgoingBufCap),
	}
}

type portImpl struct {
	HookableBase

	lock sync.Mutex
	name string
	comp Component
	conn Connection

	incoming Buffer
	outgoing Buffer
}

// Name returns the name of the port.
func (p *portImpl) Name() string {
	return p.name
}

// AsRemote returns the name other ports use to address this port.
func (p *portImpl) AsRemote() RemotePort {
	return RemotePort(p.name)
}

// SetConnection sets which connection is plugged into this port.
func (p *portImpl) SetConnection(conn Connection) {
	if p.conn != nil {
		panic(fmt.Sprintf("connection already set to %s, now connecting to %s",
			p.conn.Name(), conn.Name()))
	}

	p.conn = conn
}

// Component returns the owner of the port.
func (p *portImpl) Component() Component {
	return p.comp
}

// CanSend checks if the port can accept another outbound message.
func (p *portImpl) CanSend() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.outgoing.CanPush()
}

// Send queues an outbound message and wakes the connection when the
// outgoing buffer was empty.
func (p *portImpl) Send(msg Msg) *SendError {
	p.lock.Lock()

	p.msgMustBeValid(msg)

	if !p.outgoing.CanPush() {
		p.lock.Unlock()
		return NewSendError()
	}

	wasEmpty := p.outgoing.Size() == 0
	p.outgoing.Push(msg)
	p.hookMsg(HookPosPortMsgSend, msg)
	p.lock.Unlock()

	if wasEmpty {
		p.conn.NotifySend()
	}

	return nil
}

// Deliver queues an inbound message and wakes the owning component when
// the incoming buffer was empty.
func (p *portImpl) Deliver(msg Msg) *SendError {
	p.lock.Lock()

	if !p.incoming.CanPush() {
		p.lock.Unlock()
		return NewSendError()
	}

	wasEmpty := p.incoming.Size() == 0
	p.hookMsg(HookPosPortMsgRecvd, msg)
	p.incoming.Push(msg)
	p.lock.Unlock()

	if p.comp != nil && wasEmpty {
		p.comp.NotifyRecv(p)
	}

	return nil
}

// RetrieveIncoming takes the next inbound message. The connection is
// notified when the retrieval frees a previously full buffer.
func (p *portImpl) RetrieveIncoming() Msg {
	p.lock.Lock()

	item := p.incoming.Pop()
	if item == nil {
		p.lock.Unlock()
		return nil
	}

	if p.incoming.Size() == p.incoming.Capacity()-1 {
		p.conn.NotifyAvailable(p)
	}

	p.lock.Unlock()

	msg := item.(Msg)
	p.hookMsg(HookPosPortMsgRetrieveIncoming, msg)

	return msg
}

// RetrieveOutgoing takes the next outbound message. The component is
// notified when the retrieval frees a previously full buffer.
func (p *portImpl) RetrieveOutgoing() Msg {
	p.lock.Lock()

	item := p.outgoing.Pop()
	if item == nil {
		p.lock.Unlock()
		return nil
	}

	if p.outgoing.Size() == p.outgoing.Capacity()-1 {
		p.comp.NotifyPortFree(p)
	}

	p.lock.Unlock()

	msg := item.(Msg)
	p.hookMsg(HookPosPortMsgRetrieveOutgoing, msg)

	return msg
}

// PeekIncoming returns the next inbound message without removing it.
func (p *portImpl) PeekIncoming() Msg {
	p.lock.Lock()
	defer p.lock.Unlock()

	item := p.incoming.Peek()
	if item == nil {
		return nil
	}

	return item.(Msg)
}

// PeekOutgoing returns the next outbound message without removing it.
func (p *portImpl) PeekOutgoing() Msg {
	p.lock.Lock()
	defer p.lock.Unlock()

	item := p.outgoing.Peek()
	if item == nil {
		return nil
	}

	return item.(Msg)
}

// NotifyAvailable is called by the connection when it can deliver to
// the other side again.
func (p *portImpl) NotifyAvailable() {
	if p.comp != nil {
		p.comp.NotifyPortFree(p)
	}
}

func (p *portImpl) hookMsg(pos *HookPos, msg Msg) {
	p.InvokeHook(HookCtx{
		Domain: p,
		Pos:    pos,
		Item:   msg,
	})
}

func (p *portImpl) msgMustBeValid(msg Msg) {
	meta := msg.Meta()

	if string(meta.Src) != p.name {
		panic("sending port is not msg src")
	}

	if meta.Dst == "" {
		panic("dst is not given")
	}

	if meta.Src == meta.Dst {
		panic("sending back to src")
	}
}
