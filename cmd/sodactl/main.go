package main

//go-build: CGO_ENABLED=0

import (
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/soda.go/pkg/cli/sh"
	"github.com/robotalks/soda.go/pkg/vending"
)

func init() {
	vending.SetupFlags()
}

func main() {
	code := sh.Main()
	glog.Flush()
	os.Exit(code)
}
