// Package vending drives the soda machine controller: inventory queries,
// button presses and vends over a 4800 baud serial line.
package vending

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/robotalks/soda.go/pkg/l0/device"
)

// Slot limits.
const (
	Slots   = 8
	MinSlot = 0
	MaxSlot = Slots - 1
)

// Button wait limits, in seconds.
const (
	MinButtonTimeout     = 1
	MaxButtonTimeout     = 60
	DefaultButtonTimeout = 10
)

// NoButton is returned by AwaitButton when nothing was pressed in time.
const NoButton = -1

// DefaultReplyTimeout bounds the inventory and vend exchanges.
const DefaultReplyTimeout = 2 * time.Second

// VendConfirm is the byte the controller echoes for a successful vend.
const VendConfirm = 'Y'

// Opcodes of the vending controller.
const (
	opInventory = 'S'
	opButton    = 'B'
	opVend      = 'V'
)

// Command table of the vending controller. No framing is used.
var (
	CmdInventory = device.CommandSpec{
		Name:       "inventory",
		Payload:    []byte{opInventory},
		Reply:      device.ReplyFixed,
		ReplyLen:   3,
		Check:      checkInventory,
		Idempotent: true,
	}
	CmdButton = device.CommandSpec{
		Name:     "button",
		Payload:  []byte{opButton},
		Reply:    device.ReplyFixed,
		ReplyLen: 1,
	}
	CmdVend = device.CommandSpec{
		Name:     "vend",
		Payload:  []byte{opVend},
		Args:     []device.Arg{{Name: "slot", Min: MinSlot, Max: MaxSlot}},
		Reply:    device.ReplyFixed,
		ReplyLen: 1,
	}
)

func checkInventory(payload []byte) error {
	_, err := DecodeInventory(payload)
	return err
}

// DecodeInventory interprets the 3-byte inventory reply {'S', hi, lo}
// where hi and lo are ASCII hex digits of the bitmap.
//
// Whether the controller really sends hex digits instead of a raw byte
// has not been confirmed on hardware.
func DecodeInventory(reply []byte) (Inventory, error) {
	if len(reply) != 3 {
		return 0, fmt.Errorf("inventory reply of %d bytes", len(reply))
	}
	if reply[0] != opInventory {
		return 0, fmt.Errorf("inventory reply starts with %q", reply[0])
	}
	var b [1]byte
	if _, err := hex.Decode(b[:], reply[1:]); err != nil {
		return 0, fmt.Errorf("inventory bitmap %q: %w", reply[1:], err)
	}
	return Inventory(b[0]), nil
}
