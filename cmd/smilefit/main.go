package main

import (
	"os"

	"github.com/banachtech/smile/cmd/smilefit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
