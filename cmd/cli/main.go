package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/messagely/messagely/internal/cli"
)

func main() {

	addr := flag.String("a", "http://127.0.0.1:8080", "server address")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-a addr] register|login|users\n", os.Args[0])
		os.Exit(2)
	}

	ctx := context.Background()
	app := cli.NewApp(*addr)

	if err := app.Run(ctx, flag.Arg(0)); err != nil {
		log.Fatalf("%v", err)
	}
}
