package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shinyvision/hsp3ls/internal/commands"
)

var version = "0.1.0"

func main() {
	err := commands.NewRootCommand(version).ExecuteContext(context.Background())
	if err != nil {
		if !errors.Is(err, commands.ErrProblems) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
