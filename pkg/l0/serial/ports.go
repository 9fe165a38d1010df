package serial

import (
	bugst "go.bug.st/serial"
)

// List enumerates serial ports present on the system.
func List() ([]string, error) {
	return bugst.GetPortsList()
}
