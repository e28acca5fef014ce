// Command license-admin evaluates license edits and status offline, against
// JSON exports of license records and seat rosters.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "license-admin:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "license-admin",
		Usage: "Inspect license status and preview seat reconciliation",
		Flags: []cli.Flag{
			&cli.TimestampFlag{
				Name:   "now",
				Usage:  "Evaluate as of this instant instead of the current time",
				Layout: "2006-01-02T15:04:05Z07:00",
			},
		},
		Commands: []*cli.Command{
			reconcileCommand(),
			statusCommand(),
		},
	}
}
