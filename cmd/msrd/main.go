package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/soda.go/pkg/daemon"
	fx "github.com/robotalks/soda.go/pkg/framework"
	"github.com/robotalks/soda.go/pkg/ipc/mqtt"
	"github.com/robotalks/soda.go/pkg/msgs"
	"github.com/robotalks/soda.go/pkg/stripe"
)

var (
	mqttURL = daemon.Default().MQTTURL
	id      = daemon.Default().ID
)

func init() {
	stripe.SetupFlags()
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL for swipe events, empty to disable.")
	flag.StringVar(&id, "id", id, "Machine ID used in MQTT topics.")
}

func fail(format string, args ...interface{}) {
	glog.Errorf(format, args...)
	glog.Flush()
	os.Exit(1)
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := stripe.NewConfig()
	reader, err := conf.Open()
	if err != nil {
		fail("Open stripe reader: %v", err)
	}
	defer reader.Close()
	if err := reader.Init(); err != nil {
		reader.Close()
		fail("Init stripe reader: %v", err)
	}

	session := stripe.NewSession(reader, stripe.ApproveAll)
	if mqttURL != "" {
		q, err := mqtt.NewQueueFromURL(mqttURL)
		if err != nil {
			reader.Close()
			fail("MQTT: %v", err)
		}
		if err := q.Connect(); err != nil {
			reader.Close()
			fail("MQTT connect: %v", err)
		}
		defer q.Close()
		pub := mqtt.NewPublisher(q, id)
		session.OnResult = func(swipe stripe.Swipe, approved bool) {
			err := pub.Publish(&msgs.SwipeEvent{
				MaskedPan: swipe.MaskedPAN(),
				Expiry:    swipe.Expiry,
				Approved:  approved,
			})
			if err != nil {
				glog.Warningf("Publish swipe: %v", err)
			}
		}
	}

	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("listener", conf.NewListener(reader, session)))
	if err := runner.Wait(); err != nil {
		glog.Errorf("Stopped: %v", err)
	}
}
