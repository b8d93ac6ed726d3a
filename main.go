// Command tada is the module-root entry point; `go run .` behaves like cmd/todo.
package main

import (
	"flag"
	"os"

	"github.com/idilsaglam/tada/internal/cli"
)

func main() {
	group := flag.Bool("group", false, "group output by pending/done")
	configPath := flag.String("config", "", "config file (default ~/.tada/config.yaml)")
	flag.Parse()

	if flag.NArg() == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}
	os.Exit(cli.Run(flag.Args(), cli.Options{Group: *group, ConfigPath: *configPath}))
}
