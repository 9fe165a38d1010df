package stream

import (
	"context"
	"net"
	"os"

	"github.com/golang/glog"
)

// ConnHandler serves one accepted connection until it returns.
type ConnHandler func(ctx context.Context, rw *ReadWriter)

// Server accepts connections on a unix socket.
type Server struct {
	Path    string
	Handler ConnHandler
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	os.Remove(s.Path)
	ln, err := net.Listen("unix", s.Path)
	if err != nil {
		return err
	}
	glog.Infof("Listening on %s", s.Path)
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	defer os.Remove(s.Path)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		go func() {
			defer conn.Close()
			s.Handler(ctx, New(conn))
		}()
	}
}
