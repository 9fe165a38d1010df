package sh

import (
	"context"
	"fmt"
	"net/url"

	fx "github.com/robotalks/soda.go/pkg/framework"
	"github.com/robotalks/soda.go/pkg/ipc"
	"github.com/robotalks/soda.go/pkg/ipc/mqtt"
	"github.com/robotalks/soda.go/pkg/ipc/stream"
	"github.com/robotalks/soda.go/pkg/ipc/websocket"
)

// Dial connects to a running daemon. Supported addresses:
//
//	unix:///run/soda.sock
//	ws://host:port/soda
//	mqtt://host:port/prefix/?id=MACHINE-ID
//
// The returned Runnable must run for replies to arrive.
func Dial(addr string) (*ipc.Client, fx.Runnable, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, nil, err
	}
	switch u.Scheme {
	case "unix":
		rw, err := stream.Dial(u.Path)
		if err != nil {
			return nil, nil, err
		}
		client := ipc.NewClient(rw)
		return client, client, nil
	case "ws", "wss":
		rw, err := websocket.Dial(addr)
		if err != nil {
			return nil, nil, err
		}
		client := ipc.NewClient(rw)
		return client, client, nil
	case "mqtt", "tcp", "ssl":
		id := u.Query().Get("id")
		if id == "" {
			return nil, nil, fmt.Errorf("machine id required in %q", addr)
		}
		q, err := mqtt.NewQueueFromURL(addr)
		if err != nil {
			return nil, nil, err
		}
		if err := q.Connect(); err != nil {
			return nil, nil, err
		}
		rw := mqtt.NewPacketReadWriter(q).ForClient(id)
		client := ipc.NewClient(rw)
		return client, fx.RunFunc(func(ctx context.Context) error {
			defer q.Close()
			go rw.Run(ctx)
			return client.Run(ctx)
		}), nil
	}
	return nil, nil, fmt.Errorf("unsupported address %q", addr)
}
