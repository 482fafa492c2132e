// Command wikiwalk finds a chain of links between two wiki articles.
//
//	wikiwalk walk "Dog" "Wolf" --dir bi
//	wikiwalk repl
//	wikiwalk serve --addr :8080
//
// Without --graph the live MediaWiki API is used; --graph reads an offline
// YAML link table instead.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(newApp(os.Stdin, os.Stdout, os.Stderr)).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "wikiwalk:", err)
		stop()
		os.Exit(1)
	}
}
