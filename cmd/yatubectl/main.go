package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/yatube/internal/ctl"
)

func main() {
	if err := ctl.NewRootCommand(ctl.OpenPostgres).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
