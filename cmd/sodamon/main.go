package main

import (
	"flag"
	"os"
	"os/signal"
	"reflect"

	"github.com/golang/glog"

	"github.com/robotalks/soda.go/pkg/daemon"
	"github.com/robotalks/soda.go/pkg/ipc/mqtt"
	"github.com/robotalks/soda.go/pkg/msgs"
)

var mqttURL = daemon.Default().MQTTURL

func init() {
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	// a monitor is for watching, print to the terminal unless told otherwise.
	flag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()
	if mqttURL == "" {
		glog.Error("MQTT broker URL required")
		glog.Flush()
		os.Exit(1)
	}

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		glog.Errorf("MQTT: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	q.Sub("#", func(topic string, payload []byte) {
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			glog.Warningf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			glog.Warningf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		glog.Infof("%s: #%d [%s] %s", topic, typed.Sequence,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
			msg.(msgs.SerializableMessage).Serializable().String())
	})
	if err := q.Connect(); err != nil {
		glog.Errorf("MQTT connect: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	defer q.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	<-sigCh
}
