// Command stockroom tracks products, customer orders and the customers
// behind them in a local SQLite file.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/stockroom/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
