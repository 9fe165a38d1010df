// Package env identifies the host a daemon runs on.
package env

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID salts the machine id so it is not exposed as is.
const AppID = "soda"

// MachineID retrieves an id unique to this machine and application.
// It returns fallback when no machine id is available.
func MachineID(fallback string) string {
	id, err := machineid.ProtectedID(AppID)
	if err != nil {
		glog.Warningf("Machine id unavailable: %v", err)
		return fallback
	}
	return id[:12]
}
