package daemon

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/soda.go/pkg/env"
	fx "github.com/robotalks/soda.go/pkg/framework"
	"github.com/robotalks/soda.go/pkg/ipc/mqtt"
	"github.com/robotalks/soda.go/pkg/ipc/stream"
	"github.com/robotalks/soda.go/pkg/ipc/websocket"
)

// Config selects the front ends of the daemon.
type Config struct {
	// ID names this machine in MQTT topics.
	ID string
	// MQTTURL e.g. mqtt://host:1883/soda/, empty disables MQTT.
	MQTTURL string
	// Listen is the websocket listen address, empty disables it.
	Listen string
	// Socket is the unix socket path, empty disables it.
	Socket string
}

// Description is announced over MQTT.
const Description = "soda vending machine"

// WebsocketPath is where the websocket front end is served.
const WebsocketPath = "/soda"

var defaultConfig = Config{
	Socket: "/run/soda.sock",
}

// ErrNoTransport is returned when every front end is disabled.
var ErrNoTransport = errors.New("no transport enabled")

func init() {
	if val := os.Getenv("SODA_ID"); val != "" {
		defaultConfig.ID = val
	} else {
		defaultConfig.ID = env.MachineID("soda")
	}
	if val := os.Getenv("SODA_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("SODA_LISTEN"); val != "" {
		defaultConfig.Listen = val
	}
	if val, ok := os.LookupEnv("SODA_SOCKET"); ok {
		defaultConfig.Socket = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Machine ID used in MQTT topics.")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL, empty to disable.")
	flag.StringVar(&defaultConfig.Listen, "listen", defaultConfig.Listen, "Websocket listen address, empty to disable.")
	flag.StringVar(&defaultConfig.Socket, "socket", defaultConfig.Socket, "Unix socket path, empty to disable.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Transports creates a Runnable for every enabled front end, all served
// by w.
func (c *Config) Transports(w *Worker) ([]fx.Runnable, error) {
	var runnables []fx.Runnable
	if c.MQTTURL != "" {
		q, err := mqtt.NewAnnouncedQueue(c.MQTTURL, mqtt.Meta{ID: c.ID, Description: Description})
		if err != nil {
			return nil, err
		}
		runnables = append(runnables, fx.NamedRun("mqtt", fx.RunFunc(func(ctx context.Context) error {
			if err := q.Connect(); err != nil {
				return err
			}
			defer q.Close()
			defer mqtt.Withdraw(q, c.ID)
			rw := mqtt.NewPacketReadWriter(q).ForServer(c.ID)
			go rw.Run(ctx)
			return w.Serve(ctx, rw)
		})))
	}
	if c.Listen != "" {
		runnables = append(runnables, fx.NamedRun("websocket", &websocket.Server{
			Addr: c.Listen,
			Path: WebsocketPath,
			Handler: func(ctx context.Context, rw *websocket.ReadWriter) {
				if err := w.Serve(ctx, rw); err != nil {
					glog.Warningf("Websocket client: %v", err)
				}
			},
		}))
	}
	if c.Socket != "" {
		runnables = append(runnables, fx.NamedRun("socket", &stream.Server{
			Path: c.Socket,
			Handler: func(ctx context.Context, rw *stream.ReadWriter) {
				if err := w.Serve(ctx, rw); err != nil {
					glog.Warningf("Socket client: %v", err)
				}
			},
		}))
	}
	if len(runnables) == 0 {
		return nil, ErrNoTransport
	}
	return runnables, nil
}
