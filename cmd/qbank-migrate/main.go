// Command qbank-migrate applies the embedded schema migrations
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"qbank/internal/platform/config"
	"qbank/internal/platform/logger"
	"qbank/migrations"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: qbank-migrate [flags] <command>

commands:
  up           apply every pending migration
  down <n>     roll back n migrations
  drop         drop everything in the schema (requires -yes)
  version      print the applied schema version
  status       print the schema position against the embedded set

flags:
`)
	flag.PrintDefaults()
}

func main() {
	var (
		fTable = flag.String("table", "", "bookkeeping table override (default schema_migrations)")
		fYes   = flag.Bool("yes", false, "confirm destructive commands")
	)
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_") // DSN comes from SERVICE_PGSQL_DBURL
	l := logger.Get()

	ctx := context.Background()
	r, err := migrations.NewRunner(ctx, migrations.Config{
		DatabaseURL: pgCfg.MustString("DBURL"),
		Table:       *fTable,
	}, *l)
	if err != nil {
		l.Fatal().Err(err).Msg("migrate: runner init failed")
	}
	defer func() {
		if err := r.Close(); err != nil {
			l.Error().Err(err).Msg("migrate: close failed")
		}
	}()

	switch args[0] {
	case "up":
		err = r.Up()
	case "down":
		if len(args) < 2 {
			l.Fatal().Msg("migrate: down needs a step count")
		}
		var steps int
		steps, err = strconv.Atoi(args[1])
		if err != nil {
			l.Fatal().Str("steps", args[1]).Msg("migrate: step count must be an integer")
		}
		err = r.Down(steps)
	case "drop":
		if !*fYes {
			l.Fatal().Msg("migrate: drop is destructive, pass -yes to confirm")
		}
		err = r.Drop()
	case "version":
		var st migrations.Status
		st, err = r.Status()
		if err == nil {
			if !st.Applied {
				fmt.Println("version: none")
				break
			}
			fmt.Printf("version: %d (dirty: %v)\n", st.Version, st.Dirty)
		}
	case "status":
		var st migrations.Status
		st, err = r.Status()
		if err == nil {
			if !st.Applied {
				fmt.Printf("schema: no migrations applied (latest available: %d)\n", st.Latest)
				break
			}
			fmt.Printf("schema: version %d of %d (dirty: %v)\n", st.Version, st.Latest, st.Dirty)
		}
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		l.Fatal().Err(err).Str("command", args[0]).Msg("migrate: command failed")
	}
}
