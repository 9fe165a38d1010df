package sh

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/soda.go/pkg/daemon"
	"github.com/robotalks/soda.go/pkg/ipc/mqtt"
	"github.com/robotalks/soda.go/pkg/l0/device"
	"github.com/robotalks/soda.go/pkg/l0/serial"
	"github.com/robotalks/soda.go/pkg/msgs"
	"github.com/robotalks/soda.go/pkg/vending"
)

var (
	// InventoryCmd shows the stock of every slot.
	InventoryCmd = ishell.Cmd{
		Name:    "inventory",
		Aliases: []string{"inv", "i"},
		Help:    "show stock, slot 0 first",
		Func: func(c *ishell.Context) {
			DoCommand(c, &msgs.InventoryQuery{}, 0)
		},
	}

	// HasCmd checks a slot.
	HasCmd = ishell.Cmd{
		Name: "has",
		Help: "SLOT",
		Func: func(c *ishell.Context) {
			slot, err := slotArg(c.Args)
			if err != nil {
				Fail(c, err)
				return
			}
			DoCommand(c, &msgs.SlotQuery{Slot: slot}, 0)
		},
	}

	// VendCmd dispenses a soda.
	VendCmd = ishell.Cmd{
		Name: "vend",
		Help: "SLOT",
		Func: func(c *ishell.Context) {
			slot, err := slotArg(c.Args)
			if err != nil {
				Fail(c, err)
				return
			}
			DoCommand(c, &msgs.VendRequest{Slot: slot}, 0)
		},
	}

	// ButtonCmd waits for a selection button.
	ButtonCmd = ishell.Cmd{
		Name:    "button",
		Aliases: []string{"b"},
		Help:    "[SECONDS]",
		Func: func(c *ishell.Context) {
			timeout := vending.DefaultButtonTimeout
			if len(c.Args) > 0 {
				val, err := strconv.Atoi(c.Args[0])
				if err != nil {
					Fail(c, err)
					return
				}
				timeout = val
			}
			// zero means the default on the wire, so reject it here.
			if err := device.CheckRange("timeout", timeout, vending.MinButtonTimeout, vending.MaxButtonTimeout); err != nil {
				Fail(c, err)
				return
			}
			DoCommand(c, &msgs.ButtonQuery{TimeoutSeconds: int32(timeout)}, time.Duration(timeout)*time.Second)
		},
	}

	// DiscoverCmd lists daemons announced on the MQTT broker.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "list daemons announced over MQTT",
		Func: func(c *ishell.Context) {
			brokerURL := daemon.Default().MQTTURL
			if brokerURL == "" {
				Fail(c, fmt.Errorf("MQTT broker URL required (SODA_MQTT_URL)"))
				return
			}
			q, err := mqtt.NewQueueFromURL(brokerURL)
			if err != nil {
				Fail(c, err)
				return
			}
			if err := q.Connect(); err != nil {
				Fail(c, err)
				return
			}
			defer q.Close()
			metas := mqtt.Discover(context.Background(), q, time.Second)
			if ShellFrom(c).OutputJSON {
				out, err := json.Marshal(metas)
				if err != nil {
					Fail(c, err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(metas) == 0 {
				c.Println("No daemons found")
				return
			}
			for _, meta := range metas {
				c.Printf("%s: %s\n", meta.ID, meta.Description)
			}
		},
	}

	// PortsCmd lists serial ports on this host.
	PortsCmd = ishell.Cmd{
		Name: "ports",
		Help: "list serial ports",
		Func: func(c *ishell.Context) {
			ports, err := serial.List()
			if err != nil {
				Fail(c, err)
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, port := range ports {
				c.Println(port)
			}
		},
	}
)
