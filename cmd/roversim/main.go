package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"net"

	"github.com/golang/glog"

	"github.com/kpirover/rover.go/pkg/framework"
	"github.com/kpirover/rover.go/pkg/sim"
)

var (
	listenAddr = ":9920"
	apiVersion = 1
)

func init() {
	flag.StringVar(&listenAddr, "listen", listenAddr, "TCP listen address.")
	flag.IntVar(&apiVersion, "api-version", apiVersion, "API version the simulated ECU reports.")
}

func main() {
	flag.Parse()

	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		glog.Exitf("listen %s: %v", listenAddr, err)
	}

	srv := sim.NewServer()
	srv.ECU.APIVersion = uint8(apiVersion)

	err = framework.NewRunner().
		HandleSignals().
		Go(framework.RunFunc(func(ctx context.Context) error {
			return srv.Serve(ctx, lis)
		})).
		Wait()
	if err != nil {
		glog.Exit(err)
	}
}
