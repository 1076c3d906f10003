package main

import (
	"github.com/mchmarny/punch/pkg/cli"
)

func main() {
	cli.Execute()
}
