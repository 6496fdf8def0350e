package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/roster"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db     *sql.DB // nil unless storage is postgres
	svc    *attendance.Service
	roster *roster.Roster
	out    io.Writer
	tty    bool // print tables instead of CSV
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	_, _ = fmt.Fprintln(cli.out, "  stats - print institution statistics")
	_, _ = fmt.Fprintln(cli.out, "  report [-out FILE] - write the institution attendance report as CSV")
	_, _ = fmt.Fprintln(cli.out, "  simulate -subject SUBJECT -room ROOM [-class ID] [-for DURATION] [-max N] [-every DURATION] - open a session and let simulated participants join")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportOut := reportCmd.String("out", "", "Output file. Prints to stdout when empty.")

	simulateCmd := flag.NewFlagSet("simulate", flag.ContinueOnError)
	simulateClass := simulateCmd.String("class", "", "The class ID. Defaults to the configured class ID.")
	simulateSubject := simulateCmd.String("subject", "", "The subject taught.")
	simulateRoom := simulateCmd.String("room", "", "The room the class takes place in.")
	simulateFor := simulateCmd.Duration("for", 30*time.Second, "How long participants keep joining.")
	simulateMax := simulateCmd.Int("max", 25, "Maximum number of participants.")
	simulateEvery := simulateCmd.Duration("every", 3*time.Second, "Time between join attempts.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "stats":
		return cli.stats()
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.report(*reportOut)
	case "simulate":
		if err := simulateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *simulateSubject == "" || *simulateRoom == "" || *simulateMax <= 0 {
			simulateCmd.Usage()
			return errHelp
		}
		return cli.simulate(simulateOptions{
			classID:  *simulateClass,
			subject:  *simulateSubject,
			room:     *simulateRoom,
			duration: *simulateFor,
			maxJoins: *simulateMax,
			interval: *simulateEvery,
		})
	default:
		cli.printUsage()
		return errHelp
	}
}
