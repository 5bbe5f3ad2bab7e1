package main

import (
	"os"

	"github.com/englifish/englifish/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
