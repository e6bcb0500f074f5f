package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/rpupo63/portfolio/cmd"
)

const version = "0.2.0"

func main() {
	root := cmd.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
