package main

import (
	"context"
	"fmt"
	"os"

	"github.com/abhisek/learntool/cmd"
)

func main() {
	ctx, stop := cmd.SignalContext(context.Background())
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
