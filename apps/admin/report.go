package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/report"
)

func (cli *commandLine) report(out string) error {
	if out == "" {
		return report.WriteInstitutionReport(cli.out, cli.roster.Students())
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "creating report file")
	}
	if err = report.WriteInstitutionReport(f, cli.roster.Students()); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing report file")
	}
	_, _ = fmt.Fprintf(cli.out, "report written to %s\n", out)
	return nil
}
