// Command registros is the operator CLI for the registros database: schema
// migration, spreadsheet import and validation, export and import history.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/registros/internal/core"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError writes err to w. Errors with a support code get a second line
// carrying the message and suggested action.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err)
	if core.IsUserFacing(err) {
		fmt.Fprintln(w, core.FormatUserError(err))
	}
}
