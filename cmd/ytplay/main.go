// Command ytplay resolves YouTube links, queries and chat messages into
// playable URLs or local files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(nil).ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ytplay: %s\n", strings.TrimSpace(err.Error()))
		stop()
		os.Exit(1)
	}
}
