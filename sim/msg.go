package sim

// A Msg is a piece of information transferred between components.
type Msg interface {
	Meta() *MsgMeta
	Clone() Msg
}

// MsgMeta is the meta data attached to every message.
type MsgMeta struct {
	ID           string
	Src, Dst     RemotePort
	TrafficClass string
	TrafficBytes int
}

// Rsp is a message that carries the completion of an earlier request.
// Concrete response types are defined next to the requests they answer.
type Rsp interface {
	Msg

	// GetRspTo returns the ID of the request this response answers.
	GetRspTo() string
}
