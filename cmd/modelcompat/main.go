// Command modelcompat explores which hardware models each catalog version
// supports.
//
//	modelcompat versions
//	modelcompat show sonoma
//	modelcompat intersect 12 15 --export out/
//	modelcompat diff 14 15 --output json
//	modelcompat serve --addr :8080
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
