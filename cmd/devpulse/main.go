// main is the entry point of the devpulse CLI.
package main

import (
	"os"

	"github.com/huangsam/devpulse/cmd"
	"github.com/huangsam/devpulse/internal/contract"
)

func main() {
	err := cmd.Execute()
	cmd.Shutdown()
	if err != nil {
		contract.LogFatal("devpulse", err)
	}
	os.Exit(0)
}
