package main

import (
	"os"

	"github.com/injkit/injagent/internal/app"
)

func main() {
	runner := app.NewRunner()
	os.Exit(runner.Run(os.Args[1:]))
}
