package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/soda.go/pkg/framework"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandOK) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// CommandErr is the generic reply representing a command error.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
	Kind    string `protobuf:"bytes,2,opt,name=kind,proto3" json:"kind,omitempty"`
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// InventoryQuery asks for the current stock.
type InventoryQuery struct {
}

// NewMessage implements Message.
func (m *InventoryQuery) NewMessage() fx.Message { return &InventoryQuery{} }

// TypeID implements SerializableMessage.
func (m *InventoryQuery) TypeID() uint32 { return InventoryQueryTypeID }

// Serializable implements SerializableMessage.
func (m *InventoryQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *InventoryQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *InventoryQuery) Reset() { *m = InventoryQuery{} }

// String implements proto.Message.
func (m *InventoryQuery) String() string { return proto.CompactTextString(m) }

// InventoryReply is the response for InventoryQuery.
type InventoryReply struct {
	Bitmap uint32 `protobuf:"varint,1,opt,name=bitmap,proto3" json:"bitmap,omitempty"`
	Slots  string `protobuf:"bytes,2,opt,name=slots,proto3" json:"slots,omitempty"`
}

// NewMessage implements Message.
func (m *InventoryReply) NewMessage() fx.Message { return &InventoryReply{} }

// TypeID implements SerializableMessage.
func (m *InventoryReply) TypeID() uint32 { return InventoryReplyTypeID }

// Serializable implements SerializableMessage.
func (m *InventoryReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *InventoryReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *InventoryReply) Reset() { *m = InventoryReply{} }

// String implements proto.Message.
func (m *InventoryReply) String() string { return proto.CompactTextString(m) }

// SlotQuery asks whether a slot has soda.
type SlotQuery struct {
	Slot int32 `protobuf:"varint,1,opt,name=slot,proto3" json:"slot,omitempty"`
}

// NewMessage implements Message.
func (m *SlotQuery) NewMessage() fx.Message { return &SlotQuery{} }

// TypeID implements SerializableMessage.
func (m *SlotQuery) TypeID() uint32 { return SlotQueryTypeID }

// Serializable implements SerializableMessage.
func (m *SlotQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SlotQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SlotQuery) Reset() { *m = SlotQuery{} }

// String implements proto.Message.
func (m *SlotQuery) String() string { return proto.CompactTextString(m) }

// SlotReply is the response for SlotQuery.
type SlotReply struct {
	Slot    int32 `protobuf:"varint,1,opt,name=slot,proto3" json:"slot,omitempty"`
	HasSoda bool  `protobuf:"varint,2,opt,name=has_soda,json=hasSoda,proto3" json:"has_soda,omitempty"`
}

// NewMessage implements Message.
func (m *SlotReply) NewMessage() fx.Message { return &SlotReply{} }

// TypeID implements SerializableMessage.
func (m *SlotReply) TypeID() uint32 { return SlotReplyTypeID }

// Serializable implements SerializableMessage.
func (m *SlotReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SlotReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SlotReply) Reset() { *m = SlotReply{} }

// String implements proto.Message.
func (m *SlotReply) String() string { return proto.CompactTextString(m) }

// ButtonQuery waits for a selection button.
type ButtonQuery struct {
	TimeoutSeconds int32 `protobuf:"varint,1,opt,name=timeout_seconds,json=timeoutSeconds,proto3" json:"timeout_seconds,omitempty"`
}

// NewMessage implements Message.
func (m *ButtonQuery) NewMessage() fx.Message { return &ButtonQuery{} }

// TypeID implements SerializableMessage.
func (m *ButtonQuery) TypeID() uint32 { return ButtonQueryTypeID }

// Serializable implements SerializableMessage.
func (m *ButtonQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ButtonQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ButtonQuery) Reset() { *m = ButtonQuery{} }

// String implements proto.Message.
func (m *ButtonQuery) String() string { return proto.CompactTextString(m) }

// ButtonReply is the response for ButtonQuery. Button is -1 when
// nothing was pressed.
type ButtonReply struct {
	Button int32 `protobuf:"varint,1,opt,name=button,proto3" json:"button,omitempty"`
}

// NewMessage implements Message.
func (m *ButtonReply) NewMessage() fx.Message { return &ButtonReply{} }

// TypeID implements SerializableMessage.
func (m *ButtonReply) TypeID() uint32 { return ButtonReplyTypeID }

// Serializable implements SerializableMessage.
func (m *ButtonReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ButtonReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ButtonReply) Reset() { *m = ButtonReply{} }

// String implements proto.Message.
func (m *ButtonReply) String() string { return proto.CompactTextString(m) }

// VendRequest dispenses a soda.
type VendRequest struct {
	Slot int32 `protobuf:"varint,1,opt,name=slot,proto3" json:"slot,omitempty"`
}

// NewMessage implements Message.
func (m *VendRequest) NewMessage() fx.Message { return &VendRequest{} }

// TypeID implements SerializableMessage.
func (m *VendRequest) TypeID() uint32 { return VendRequestTypeID }

// Serializable implements SerializableMessage.
func (m *VendRequest) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *VendRequest) ProtoMessage() {}

// Reset implements proto.Message.
func (m *VendRequest) Reset() { *m = VendRequest{} }

// String implements proto.Message.
func (m *VendRequest) String() string { return proto.CompactTextString(m) }

// VendReply is the response for VendRequest. Code is 0 on success,
// 1 for an empty slot and -1 on error.
type VendReply struct {
	Slot  int32  `protobuf:"varint,1,opt,name=slot,proto3" json:"slot,omitempty"`
	Code  int32  `protobuf:"varint,2,opt,name=code,proto3" json:"code,omitempty"`
	Error string `protobuf:"bytes,3,opt,name=error,proto3" json:"error,omitempty"`
}

// NewMessage implements Message.
func (m *VendReply) NewMessage() fx.Message { return &VendReply{} }

// TypeID implements SerializableMessage.
func (m *VendReply) TypeID() uint32 { return VendReplyTypeID }

// Serializable implements SerializableMessage.
func (m *VendReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *VendReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *VendReply) Reset() { *m = VendReply{} }

// String implements proto.Message.
func (m *VendReply) String() string { return proto.CompactTextString(m) }

// SwipeEvent reports an authorized card swipe. The account number is
// masked.
type SwipeEvent struct {
	MaskedPan string `protobuf:"bytes,1,opt,name=masked_pan,json=maskedPan,proto3" json:"masked_pan,omitempty"`
	Expiry    string `protobuf:"bytes,2,opt,name=expiry,proto3" json:"expiry,omitempty"`
	Approved  bool   `protobuf:"varint,3,opt,name=approved,proto3" json:"approved,omitempty"`
}

// NewMessage implements Message.
func (m *SwipeEvent) NewMessage() fx.Message { return &SwipeEvent{} }

// TypeID implements SerializableMessage.
func (m *SwipeEvent) TypeID() uint32 { return SwipeEventTypeID }

// Serializable implements SerializableMessage.
func (m *SwipeEvent) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SwipeEvent) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SwipeEvent) Reset() { *m = SwipeEvent{} }

// String implements proto.Message.
func (m *SwipeEvent) String() string { return proto.CompactTextString(m) }

// Error kinds carried by CommandErr.
const (
	ErrKindInvalidArgument = "invalid-argument"
	ErrKindTimeout         = "timeout"
	ErrKindMalformed       = "malformed"
	ErrKindRefused         = "refused"
	ErrKindIO              = "io"
	ErrKindUnsupported     = "unsupported"
)

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error, kind string) *CommandErr {
	return &CommandErr{Message: err.Error(), Kind: kind}
}

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupVending uint32 = 0x00010000
	GroupStripe  uint32 = 0x00020000
)

// TypeIDs
const (
	CommandOKTypeID      uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID     uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	InventoryQueryTypeID uint32 = GroupVending | 0x0000
	InventoryReplyTypeID uint32 = InventoryQueryTypeID | TypeIDMaskReply
	SlotQueryTypeID      uint32 = GroupVending | 0x0001
	SlotReplyTypeID      uint32 = SlotQueryTypeID | TypeIDMaskReply
	ButtonQueryTypeID    uint32 = GroupVending | 0x0002
	ButtonReplyTypeID    uint32 = ButtonQueryTypeID | TypeIDMaskReply
	VendRequestTypeID    uint32 = GroupVending | 0x0003
	VendReplyTypeID      uint32 = VendRequestTypeID | TypeIDMaskReply
	SwipeEventTypeID     uint32 = GroupStripe | TypeIDKindEvent | 0x0000
)

// MessageTypes are predefined mapping of type ID to messages.
var MessageTypes = map[uint32]SerializableMessage{
	CommandOKTypeID:      (*CommandOK)(nil),
	CommandErrTypeID:     (*CommandErr)(nil),
	InventoryQueryTypeID: (*InventoryQuery)(nil),
	InventoryReplyTypeID: (*InventoryReply)(nil),
	SlotQueryTypeID:      (*SlotQuery)(nil),
	SlotReplyTypeID:      (*SlotReply)(nil),
	ButtonQueryTypeID:    (*ButtonQuery)(nil),
	ButtonReplyTypeID:    (*ButtonReply)(nil),
	VendRequestTypeID:    (*VendRequest)(nil),
	VendReplyTypeID:      (*VendReply)(nil),
	SwipeEventTypeID:     (*SwipeEvent)(nil),
}
