package main

import (
	"fmt"
	"os"

	"github.com/axonops/authadm/internal/commands"
)

var version = "dev"

func main() {
	rt := &commands.Runtime{Version: version}
	if err := commands.NewRootCommand(rt).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
