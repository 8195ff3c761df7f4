package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/kpirover/rover.go/pkg/framework"
	"github.com/kpirover/rover.go/pkg/l0/comm"
	"github.com/kpirover/rover.go/pkg/l0/serial"
	"github.com/kpirover/rover.go/pkg/l1/telemetry"
	"github.com/kpirover/rover.go/pkg/l1/telemetry/feed"
)

var (
	device   = "/dev/ttyS0"
	baud     = serial.DefaultBaud
	mqttURL  = "mqtt://localhost:1883/"
	feedAddr = ""
	linkID   = ""
	pollIvl  = telemetry.DefaultPollInterval
)

func init() {
	flag.StringVar(&device, "device", device, "Serial device, or tcp:HOST:PORT.")
	flag.IntVar(&baud, "baud", baud, "Serial baud rate.")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL, empty to disable.")
	flag.StringVar(&feedAddr, "feed", feedAddr, "Websocket feed listen address, empty to disable.")
	flag.StringVar(&linkID, "id", linkID, "Link identifier in telemetry topics, default machine id.")
	flag.DurationVar(&pollIvl, "poll", pollIvl, "Telemetry poll interval.")
}

func openDevice() (comm.Device, error) {
	if addr, ok := strings.CutPrefix(device, "tcp:"); ok {
		return serial.Dial(addr)
	}
	return serial.Open(device, baud)
}

func main() {
	flag.Parse()

	dev, err := openDevice()
	if err != nil {
		glog.Exitf("open %s: %v", device, err)
	}
	link := comm.New(dev)
	link.Start()
	defer link.Close()

	id := linkID
	if id == "" {
		if id, err = telemetry.LinkID(); err != nil {
			glog.Exitf("link id: %v", err)
		}
	}

	var mq *telemetry.MQ
	var sinks []telemetry.Sink
	if mqttURL != "" {
		if mq, err = telemetry.NewMQFromURL(mqttURL); err != nil {
			glog.Exitf("mqtt: %v", err)
		}
		token := mq.Connect()
		token.Wait()
		if err = token.Error(); err != nil {
			glog.Exitf("mqtt connect: %v", err)
		}
		defer mq.Close()
		sinks = append(sinks, mq)
	}

	runner := framework.NewRunner().HandleSignals()

	if mq != nil {
		runner.Go(telemetry.NewCommander(link, mq, id))
	}

	if feedAddr != "" {
		fs := &feed.Server{}
		sinks = append(sinks, fs)
		lis, err := net.Listen("tcp", feedAddr)
		if err != nil {
			glog.Exitf("feed listen %s: %v", feedAddr, err)
		}
		mux := http.NewServeMux()
		mux.Handle("/feed", fs.Handler())
		httpSrv := &http.Server{Handler: mux}
		runner.Go(framework.NamedRun("feed", framework.RunFunc(func(ctx context.Context) error {
			return framework.RunWithContextCancel(ctx, func() {
				shutCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				httpSrv.Shutdown(shutCtx)
			}, func() error {
				err := httpSrv.Serve(lis)
				if err == http.ErrServerClosed {
					err = nil
				}
				return err
			})
		})))
		glog.Infof("feed on ws://%s/feed", lis.Addr())
	}

	poller := telemetry.NewPoller(link)
	poller.Interval = pollIvl

	err = runner.
		Go(poller).
		Go(telemetry.NewPublisher(link, id, sinks...)).
		Wait()
	if err != nil {
		glog.Exit(err)
	}
}
