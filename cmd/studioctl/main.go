package main

import (
	"fmt"
	"os"

	"github.com/BruksfildServices01/studio-scheduler/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
