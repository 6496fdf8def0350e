package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/services/simulator"
)

type simulateOptions struct {
	classID  string
	subject  string
	room     string
	duration time.Duration
	maxJoins int
	interval time.Duration
}

func (cli *commandLine) simulate(opts simulateOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), opts.duration)
	defer cancel()

	sess, err := cli.svc.OpenSession(ctx, session.NewSession{
		ClassID: opts.classID,
		Subject: opts.subject,
		Room:    opts.room,
	})
	if err != nil {
		return errors.Wrap(err, "opening session")
	}
	_, _ = fmt.Fprintf(cli.out, "session %s opened: %s in %s\n", sess.ShortToken(), sess.Subject, sess.Room)

	sim := simulator.New(cli.svc, simulator.Options{
		Interval: opts.interval,
		MaxJoins: opts.maxJoins,
	})
	joined := sim.Run(ctx, sess.Token, func(pid string, out attendance.Outcome) {
		_, _ = fmt.Fprintf(cli.out, "  %s: %s\n", pid, out.Status)
	})

	if _, _, err = cli.svc.CloseSession(context.Background()); err != nil {
		return errors.Wrap(err, "closing session")
	}
	_, _ = fmt.Fprintf(cli.out, "session closed: %d participant(s) joined\n", joined)
	return nil
}
