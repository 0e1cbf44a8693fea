package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "netsearch",
		Usage: "Search captured network traffic by URL, header and body",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error (overrides LOG_LEVEL)",
			},
		},
		Commands: []*cli.Command{
			ServeCommand(),
			SearchCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
