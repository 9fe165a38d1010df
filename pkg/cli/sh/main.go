package sh

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/robotalks/soda.go/pkg/daemon"
	"github.com/robotalks/soda.go/pkg/vending"
)

var remoteAddr = os.Getenv("SODA_REMOTE")

func init() {
	flag.StringVar(&remoteAddr, "remote", remoteAddr, "Daemon address (unix://, ws:// or mqtt://), empty to drive the serial line directly.")
}

// Main is a helper to provide a single call in main. It returns the
// process exit code.
func Main() int {
	flag.Parse()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var doer Doer
	if remoteAddr != "" {
		client, runner, err := Dial(remoteAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "connect %s: %v\n", remoteAddr, err)
			return 1
		}
		defer client.Close()
		go runner.Run(ctx)
		doer = client
	} else {
		m, err := vending.Default().Open()
		if err != nil {
			fmt.Fprintf(os.Stderr, "open vending machine: %v\n", err)
			return 1
		}
		defer m.Close()
		w := daemon.NewWorker(m)
		go w.Run(ctx)
		doer = w
	}
	if !New(doer).Run(flag.Args()...) {
		return 1
	}
	return 0
}
