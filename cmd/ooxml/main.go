// Command ooxml inspects Office Open XML packages: their parts, relationships,
// document properties and theme.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

// Version is set with -ldflags at release time.
var Version = "0.1.0"

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
