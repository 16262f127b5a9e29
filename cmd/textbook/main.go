// Command textbook checks, renders and maintains the chapter catalog offline.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/yungbote/textbook-backend/internal/platform/logger"
)

func main() {
	log := logger.Nop()
	if mode := os.Getenv("LOG_MODE"); mode != "" {
		if l, err := logger.New(mode); err == nil {
			log = l
		}
	}
	defer log.Sync()

	if err := run(os.Args[1:], os.Stdout, log); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintf(os.Stderr, "textbook: %v\n", err)
		}
		os.Exit(1)
	}
}

func newParser(cli *CLI, stdout io.Writer) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("textbook"),
		kong.Description("Offline tools for the textbook chapter catalog"),
		kong.UsageOnError(),
		kong.Writers(stdout, os.Stderr),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
}
