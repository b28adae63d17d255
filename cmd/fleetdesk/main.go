package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/macropower/fleetdesk/internal/cli"
	"github.com/macropower/fleetdesk/pkg/version"
)

func main() {
	err := fang.Execute(context.Background(), cli.NewRootCmd(),
		fang.WithVersion(version.GetVersion()),
		fang.WithColorSchemeFunc(cli.ColorSchemeFunc),
		fang.WithErrorHandler(cli.ErrorHandler),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err != nil {
		os.Exit(1)
	}
}
