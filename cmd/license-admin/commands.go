package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"licensehub/internal/license/engine"
	"licensehub/internal/license/models"
)

func reconcileCommand() *cli.Command {
	return &cli.Command{
		Name:  "reconcile",
		Usage: "Show which seats an edit would deactivate",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "old", Usage: "current license record (JSON)", Required: true},
			&cli.PathFlag{Name: "new", Usage: "requested license record (JSON)", Required: true},
			&cli.PathFlag{Name: "roster", Usage: "seat roster (JSON array)"},
		},
		Action: runReconcile,
	}
}

func runReconcile(c *cli.Context) error {
	var oldRaw, newRaw models.RawLicense
	if err := readJSON(c.Path("old"), &oldRaw); err != nil {
		return err
	}
	if err := readJSON(c.Path("new"), &newRaw); err != nil {
		return err
	}
	roster, err := readRoster(c.Path("roster"))
	if err != nil {
		return err
	}
	return writeJSON(c, engine.Reconcile(oldRaw, newRaw, roster, now(c)))
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the normalized license with its usage figures",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "license", Usage: "license record (JSON)", Required: true},
			&cli.PathFlag{Name: "roster", Usage: "seat roster used to count active seats (JSON array)"},
			&cli.IntFlag{Name: "active", Usage: "active seat count, overrides --roster"},
		},
		Action: runStatus,
	}
}

func runStatus(c *cli.Context) error {
	var raw models.RawLicense
	if err := readJSON(c.Path("license"), &raw); err != nil {
		return err
	}
	active := c.Int("active")
	if !c.IsSet("active") {
		roster, err := readRoster(c.Path("roster"))
		if err != nil {
			return err
		}
		active = len(engine.ActiveSeats(roster))
	}
	if active < 0 {
		return fmt.Errorf("active seat count must not be negative")
	}
	return writeJSON(c, engine.Describe(models.Snapshot{License: raw, ActiveSeats: active}, now(c)))
}

func now(c *cli.Context) time.Time {
	if ts := c.Timestamp("now"); ts != nil {
		return *ts
	}
	return time.Now()
}

func readRoster(path string) ([]models.RosterEntry, error) {
	if path == "" {
		return nil, nil
	}
	var roster []models.RosterEntry
	if err := readJSON(path, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
