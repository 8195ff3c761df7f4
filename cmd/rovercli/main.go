package main

//go-build: CGO_ENABLED=0

import (
	"github.com/kpirover/rover.go/pkg/cli/sh"
)

func main() {
	sh.Main()
}
