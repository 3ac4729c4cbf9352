package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fcrepo-tools/fixity/internal/fixity"
)

// armStopper installs a one-shot interrupt handler. The first SIGINT
// requests a graceful stop at the next object boundary; the handler then
// restores the default disposition, so a second SIGINT terminates the
// process outright.
func armStopper(stopper *fixity.Stopper, out io.Writer) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go func() {
		<-ch
		stopper.RequestStop()
		signal.Reset(os.Interrupt)
		fmt.Fprintln(out, "\nStopping after the current object; interrupt again to quit immediately.")
	}()
}
