package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
)

func (cli *commandLine) stats() error {
	now := cli.svc.Registry().Now().In(time.Local)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	byClass, total, err := cli.svc.PresentByClass(context.Background(), midnight)
	if err != nil {
		return errors.Wrap(err, "counting today's attendance")
	}
	st := cli.roster.Stats(total, byClass)

	rows := [][2]string{
		{"Total students", strconv.Itoa(st.TotalStudents)},
		{"Total teachers", strconv.Itoa(st.TotalTeachers)},
		{"Total classes", strconv.Itoa(st.TotalClasses)},
		{"Average attendance", strconv.Itoa(st.AvgAttendance) + "%"},
		{"Attendance today", strconv.Itoa(st.TodayAttendance)},
		{"Excellent (90%+)", strconv.Itoa(st.Distribution.Excellent)},
		{"Good (75-89%)", strconv.Itoa(st.Distribution.Good)},
		{"Below 75%", strconv.Itoa(st.Distribution.NeedsImprovement)},
	}
	for _, act := range st.TodayActivity {
		rows = append(rows, [2]string{"Present " + act.ID, strconv.Itoa(act.Present)})
	}

	if cli.tty {
		tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
		for _, row := range rows {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
		}
		return tw.Flush()
	}

	cw := csv.NewWriter(cli.out)
	for _, row := range rows {
		if err = cw.Write(row[:]); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
