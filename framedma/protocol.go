package framedma

import (
	"github.com/vcaplab/framecap/sim"
)

var pixelWordByteOverhead = 4
var ctrlMsgByteOverhead = 16

// A PixelWord carries one memory word of pixel data on the stream
// between the capture front end and the DMA engine. SOF marks the first
// word of a frame.
type PixelWord struct {
	sim.MsgMeta

	SOF  bool
	Data uint64
}

// Meta returns the meta data attached to the message.
func (w *PixelWord) Meta() *sim.MsgMeta {
	return &w.MsgMeta
}

// Clone returns a cloned PixelWord with a different ID.
func (w *PixelWord) Clone() sim.Msg {
	cloneMsg := *w
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// PixelWordBuilder can build pixel words.
type PixelWordBuilder struct {
	src, dst sim.RemotePort
	sof      bool
	data     uint64
}

// WithSrc sets the source of the word to build.
func (b PixelWordBuilder) WithSrc(src sim.RemotePort) PixelWordBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the word to build.
func (b PixelWordBuilder) WithDst(dst sim.RemotePort) PixelWordBuilder {
	b.dst = dst
	return b
}

// WithSOF marks the word as the first word of a frame.
func (b PixelWordBuilder) WithSOF() PixelWordBuilder {
	b.sof = true
	return b
}

// WithData sets the pixel data of the word to build.
func (b PixelWordBuilder) WithData(data uint64) PixelWordBuilder {
	b.data = data
	return b
}

// Build creates a new PixelWord.
func (b PixelWordBuilder) Build() *PixelWord {
	w := &PixelWord{}
	w.ID = sim.GetIDGenerator().Generate()
	w.Src = b.src
	w.Dst = b.dst
	w.TrafficBytes = 8 + pixelWordByteOverhead
	w.SOF = b.sof
	w.Data = b.data
	return w
}

// An ArmSlotReq asks the engine to point a slot at a frame buffer and
// arm it. The engine does not respond; the consumer learns about the
// outcome through the frame done notice.
type ArmSlotReq struct {
	sim.MsgMeta

	SlotIndex     int
	TargetAddress uint64
}

// Meta returns the meta data attached to the request.
func (r *ArmSlotReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a cloned ArmSlotReq with a different ID.
func (r *ArmSlotReq) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// ArmSlotReqBuilder can build arm slot requests.
type ArmSlotReqBuilder struct {
	src, dst      sim.RemotePort
	slotIndex     int
	targetAddress uint64
}

// WithSrc sets the source of the request to build.
func (b ArmSlotReqBuilder) WithSrc(src sim.RemotePort) ArmSlotReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b ArmSlotReqBuilder) WithDst(dst sim.RemotePort) ArmSlotReqBuilder {
	b.dst = dst
	return b
}

// WithSlotIndex sets the slot to arm.
func (b ArmSlotReqBuilder) WithSlotIndex(i int) ArmSlotReqBuilder {
	b.slotIndex = i
	return b
}

// WithTargetAddress sets the base word address of the frame buffer.
func (b ArmSlotReqBuilder) WithTargetAddress(addr uint64) ArmSlotReqBuilder {
	b.targetAddress = addr
	return b
}

// Build creates a new ArmSlotReq.
func (b ArmSlotReqBuilder) Build() *ArmSlotReq {
	r := &ArmSlotReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = ctrlMsgByteOverhead
	r.SlotIndex = b.slotIndex
	r.TargetAddress = b.targetAddress
	return r
}

// A StartReq arms the manual start trigger of an engine built in manual
// start mode. The trigger clears itself after one frame drains.
type StartReq struct {
	sim.MsgMeta
}

// Meta returns the meta data attached to the request.
func (r *StartReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a cloned StartReq with a different ID.
func (r *StartReq) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// StartReqBuilder can build start requests.
type StartReqBuilder struct {
	src, dst sim.RemotePort
}

// WithSrc sets the source of the request to build.
func (b StartReqBuilder) WithSrc(src sim.RemotePort) StartReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b StartReqBuilder) WithDst(dst sim.RemotePort) StartReqBuilder {
	b.dst = dst
	return b
}

// Build creates a new StartReq.
func (b StartReqBuilder) Build() *StartReq {
	r := &StartReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = ctrlMsgByteOverhead
	return r
}

// A SlotStatusReq asks the engine for the state of one slot.
type SlotStatusReq struct {
	sim.MsgMeta

	SlotIndex int
}

// Meta returns the meta data attached to the request.
func (r *SlotStatusReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a cloned SlotStatusReq with a different ID.
func (r *SlotStatusReq) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// SlotStatusReqBuilder can build slot status requests.
type SlotStatusReqBuilder struct {
	src, dst  sim.RemotePort
	slotIndex int
}

// WithSrc sets the source of the request to build.
func (b SlotStatusReqBuilder) WithSrc(src sim.RemotePort) SlotStatusReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b SlotStatusReqBuilder) WithDst(dst sim.RemotePort) SlotStatusReqBuilder {
	b.dst = dst
	return b
}

// WithSlotIndex sets the slot to query.
func (b SlotStatusReqBuilder) WithSlotIndex(i int) SlotStatusReqBuilder {
	b.slotIndex = i
	return b
}

// Build creates a new SlotStatusReq.
func (b SlotStatusReqBuilder) Build() *SlotStatusReq {
	r := &SlotStatusReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = ctrlMsgByteOverhead
	r.SlotIndex = b.slotIndex
	return r
}

// A SlotStatusRsp answers a SlotStatusReq.
type SlotStatusRsp struct {
	sim.MsgMeta

	RespondTo      string
	SlotIndex      int
	Status         SlotStatus
	AddressReached uint64
}

// Meta returns the meta data attached to the response.
func (r *SlotStatusRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a cloned SlotStatusRsp with a different ID.
func (r *SlotStatusRsp) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the request that the response is responding
// to.
func (r *SlotStatusRsp) GetRspTo() string {
	return r.RespondTo
}

// SlotStatusRspBuilder can build slot status responses.
type SlotStatusRspBuilder struct {
	src, dst       sim.RemotePort
	rspTo          string
	slotIndex      int
	status         SlotStatus
	addressReached uint64
}

// WithSrc sets the source of the response to build.
func (b SlotStatusRspBuilder) WithSrc(src sim.RemotePort) SlotStatusRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the response to build.
func (b SlotStatusRspBuilder) WithDst(dst sim.RemotePort) SlotStatusRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets the ID of the request that the response is replying to.
func (b SlotStatusRspBuilder) WithRspTo(id string) SlotStatusRspBuilder {
	b.rspTo = id
	return b
}

// WithSlotIndex sets the slot the response describes.
func (b SlotStatusRspBuilder) WithSlotIndex(i int) SlotStatusRspBuilder {
	b.slotIndex = i
	return b
}

// WithStatus sets the slot status to report.
func (b SlotStatusRspBuilder) WithStatus(s SlotStatus) SlotStatusRspBuilder {
	b.status = s
	return b
}

// WithAddressReached sets the last word address written to the slot.
func (b SlotStatusRspBuilder) WithAddressReached(
	addr uint64,
) SlotStatusRspBuilder {
	b.addressReached = addr
	return b
}

// Build creates a new SlotStatusRsp.
func (b SlotStatusRspBuilder) Build() *SlotStatusRsp {
	r := &SlotStatusRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = ctrlMsgByteOverhead
	r.RespondTo = b.rspTo
	r.SlotIndex = b.slotIndex
	r.Status = b.status
	r.AddressReached = b.addressReached
	return r
}

// A FrameDoneNotice announces that one frame has fully drained to
// memory and its slot turned pending.
type FrameDoneNotice struct {
	sim.MsgMeta

	FrameDoneInfo
}

// Meta returns the meta data attached to the notice.
func (n *FrameDoneNotice) Meta() *sim.MsgMeta {
	return &n.MsgMeta
}

// Clone returns a cloned FrameDoneNotice with a different ID.
func (n *FrameDoneNotice) Clone() sim.Msg {
	cloneMsg := *n
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// FrameDoneNoticeBuilder can build frame done notices.
type FrameDoneNoticeBuilder struct {
	src, dst sim.RemotePort
	info     FrameDoneInfo
}

// WithSrc sets the source of the notice to build.
func (b FrameDoneNoticeBuilder) WithSrc(
	src sim.RemotePort,
) FrameDoneNoticeBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the notice to build.
func (b FrameDoneNoticeBuilder) WithDst(
	dst sim.RemotePort,
) FrameDoneNoticeBuilder {
	b.dst = dst
	return b
}

// WithInfo sets the completion record the notice carries.
func (b FrameDoneNoticeBuilder) WithInfo(
	info FrameDoneInfo,
) FrameDoneNoticeBuilder {
	b.info = info
	return b
}

// Build creates a new FrameDoneNotice.
func (b FrameDoneNoticeBuilder) Build() *FrameDoneNotice {
	n := &FrameDoneNotice{}
	n.ID = sim.GetIDGenerator().Generate()
	n.Src = b.src
	n.Dst = b.dst
	n.TrafficBytes = ctrlMsgByteOverhead
	n.FrameDoneInfo = b.info
	return n
}
