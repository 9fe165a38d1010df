package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/soda.go/pkg/daemon"
	fx "github.com/robotalks/soda.go/pkg/framework"
	"github.com/robotalks/soda.go/pkg/vending"
)

func init() {
	vending.SetupFlags()
	daemon.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	m, err := vending.NewConfig().Open()
	if err != nil {
		glog.Errorf("Open vending machine: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	defer m.Close()

	w := daemon.NewWorker(m)
	transports, err := daemon.NewConfig().Transports(w)
	if err != nil {
		glog.Errorf("Setup transports: %v", err)
		m.Close()
		glog.Flush()
		os.Exit(1)
	}
	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("worker", w))
	runner.Go(transports...)
	if err := runner.Wait(); err != nil {
		glog.Errorf("Stopped: %v", err)
	}
}
