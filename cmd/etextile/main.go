package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/eTextile/matrix-go/blobs"
	"github.com/eTextile/matrix-go/configuration"
	"github.com/eTextile/matrix-go/publish"
	"github.com/eTextile/matrix-go/sensor"
	"github.com/eTextile/matrix-go/serialport"
	"github.com/fulldump/goconfig"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var VERSION = "dev"

func main() {
	c := configuration.Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", VERSION)
		return
	}

	// glog flags are driven by configuration, goconfig owns the command line
	flag.Set("logtostderr", strconv.FormatBool(c.LogToStderr))
	flag.Set("v", strconv.Itoa(c.LogVerbosity))
	defer glog.Flush()

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	if c.ListPorts {
		ports, err := serialport.List()
		if err != nil {
			glog.Exitf("%v", err)
		}
		for _, port := range ports {
			fmt.Println(port)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, c, serialport.Open); err != nil {
		glog.Errorf("%v", err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Infof("Bye")
}

func run(ctx context.Context, c configuration.Configuration, open serialport.Opener) error {
	session := uuid.New()
	pipeline, err := sensor.NewPipeline(c, blobs.WithTrackerObserver(sensor.LogObserver{Level: 2}))
	if err != nil {
		return err
	}
	glog.Infof("Session %s, %dx%d raw grid upsampled to %dx%d, %d blob slots, %s matching",
		session, c.Rows, c.Cols, c.NewRows, c.NewCols, pipeline.Tracker().Pool().Capacity(), c.Matching)

	options := serialport.DefaultOptions()
	options.BaudRate = c.BaudRate

	sourcePath := c.Source
	if sourcePath == "" {
		ports, err := serialport.List()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			return errors.New("no serial port found, set Source")
		}
		sourcePath = ports[0]
	}
	source, err := open(sourcePath, options)
	if err != nil {
		return err
	}
	glog.Infof("Reading frames from %s", sourcePath)

	var host serialport.Port
	if c.Host != "" {
		host, err = open(c.Host, options)
		if err != nil {
			source.Close()
			return err
		}
		glog.Infof("Serving host on %s", c.Host)
	}

	var publisher publish.Publisher = publish.Discard{}
	if c.Broker != "" {
		mqtt, err := publish.NewMQTT(c.Broker, session, byte(c.QoS))
		if err != nil {
			closeAll(source, host)
			return err
		}
		if err := mqtt.Connect(ctx); err != nil {
			closeAll(source, host)
			return err
		}
		glog.Infof("Publishing snapshots on %s", mqtt.Topic())
		publisher = mqtt
	}

	return sensor.NewDevice(pipeline, source, host, publisher, session).Run(ctx)
}

func closeAll(ports ...serialport.Port) {
	for _, port := range ports {
		if port != nil {
			port.Close()
		}
	}
}
