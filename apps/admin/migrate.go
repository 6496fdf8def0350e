package main

import (
	"errors"

	"github.com/trezcool/mahudhurio/storage/database"
)

var gooseRunFunc = database.Migrate // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errors.New("migrations need the postgres storage")
	}
	return gooseRunFunc(cli.db, args[0], args[1:]...)
}
