package vending

import (
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/soda.go/pkg/l0/device"
	"github.com/robotalks/soda.go/pkg/l0/frame"
)

// Machine is the vending controller. Calls are sequential; the owner must
// not issue commands concurrently.
type Machine struct {
	// ReplyTimeout bounds inventory and vend exchanges.
	ReplyTimeout time.Duration

	ctl    *device.Controller
	closer io.Closer
}

// New creates a Machine over link. If link is an io.Closer it is closed
// by Close.
func New(link device.Link) *Machine {
	m := &Machine{
		ReplyTimeout: DefaultReplyTimeout,
		ctl:          device.NewController(link, frame.Raw),
	}
	m.closer, _ = link.(io.Closer)
	return m
}

// Controller exposes the underlying controller, e.g. to set Retries.
func (m *Machine) Controller() *device.Controller {
	return m.ctl
}

// Close releases the serial line.
func (m *Machine) Close() error {
	if m.closer != nil {
		return m.closer.Close()
	}
	return nil
}

// QueryInventory asks the controller for a fresh stock bitmap.
func (m *Machine) QueryInventory() (Inventory, error) {
	res, err := m.ctl.Execute(&CmdInventory, m.ReplyTimeout)
	if err != nil {
		return 0, err
	}
	if err = res.AsError(CmdInventory.Name); err != nil {
		glog.Errorf("Query inventory: %v", err)
		return 0, err
	}
	// the payload already passed checkInventory.
	inv, _ := DecodeInventory(res.Payload)
	glog.V(1).Infof("Inventory %s", inv)
	return inv, nil
}

// HasSoda reports whether slot is stocked. An invalid slot returns false
// and an ErrInvalidArgument error without touching the line.
func (m *Machine) HasSoda(slot int) (bool, error) {
	if err := device.CheckRange("slot", slot, MinSlot, MaxSlot); err != nil {
		return false, err
	}
	inv, err := m.QueryInventory()
	if err != nil {
		return false, err
	}
	return inv.Has(slot), nil
}

// Vend dispenses from slot. The inventory is checked first and an empty
// slot returns VendEmpty without sending the vend command. Any reply other
// than the confirmation byte is VendError.
func (m *Machine) Vend(slot int) (VendOutcome, error) {
	if err := device.CheckRange("slot", slot, MinSlot, MaxSlot); err != nil {
		return VendError, err
	}
	inv, err := m.QueryInventory()
	if err != nil {
		return VendError, err
	}
	if !inv.Has(slot) {
		glog.Infof("Vend slot %d: empty (%s)", slot, inv)
		return VendEmpty, nil
	}
	res, err := m.ctl.Execute(&CmdVend, m.ReplyTimeout, slot)
	if err != nil {
		return VendError, err
	}
	if err = res.AsError(CmdVend.Name); err != nil {
		glog.Errorf("Vend slot %d: %v", slot, err)
		return VendError, err
	}
	if res.Payload[0] != VendConfirm {
		glog.Errorf("Vend slot %d: replied %q", slot, res.Payload[0])
		return VendError, fmt.Errorf("slot %d replied %q: %w", slot, res.Payload[0], ErrVendRefused)
	}
	glog.Infof("Vend slot %d: success", slot)
	return VendSuccess, nil
}

// AwaitButton waits up to timeoutSeconds, within [1, 60], for a selection
// button. It returns the button index or NoButton on timeout.
func (m *Machine) AwaitButton(timeoutSeconds int) (int, error) {
	if err := device.CheckRange("timeout", timeoutSeconds, MinButtonTimeout, MaxButtonTimeout); err != nil {
		return NoButton, err
	}
	res, err := m.ctl.Execute(&CmdButton, time.Duration(timeoutSeconds)*time.Second)
	if err != nil {
		return NoButton, err
	}
	switch res.Status {
	case device.StatusTimedOut:
		glog.V(1).Infof("No button within %ds", timeoutSeconds)
		return NoButton, nil
	case device.StatusMalformed:
		return NoButton, res.AsError(CmdButton.Name)
	}
	return int(res.Payload[0]), nil
}
