package vending

import "errors"

// VendOutcome is the result of Vend.
type VendOutcome int

// Vend outcomes.
const (
	VendSuccess VendOutcome = iota
	VendEmpty
	VendError
)

// ErrVendRefused means the controller answered a vend with anything but
// the confirmation byte.
var ErrVendRefused = errors.New("vend refused")

// Code returns 0 for success, 1 for an empty slot and -1 for errors.
func (o VendOutcome) Code() int32 {
	switch o {
	case VendSuccess:
		return 0
	case VendEmpty:
		return 1
	}
	return -1
}

// String implements fmt.Stringer.
func (o VendOutcome) String() string {
	switch o {
	case VendSuccess:
		return "success"
	case VendEmpty:
		return "empty"
	}
	return "error"
}

// OutcomeFromCode is the inverse of Code.
func OutcomeFromCode(code int32) VendOutcome {
	switch code {
	case 0:
		return VendSuccess
	case 1:
		return VendEmpty
	}
	return VendError
}
