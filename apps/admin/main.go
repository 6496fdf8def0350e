package main

import (
	"database/sql"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/services/logger"
	"github.com/trezcool/mahudhurio/storage/database"
	"github.com/trezcool/mahudhurio/storage/database/inmem"
	"github.com/trezcool/mahudhurio/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	stdLogger := log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)

	// set up storage
	var (
		db          *sql.DB
		sessionRepo session.Repository
		recordRepo  attendance.Repository
	)
	switch conf.Storage {
	case core.StoragePostgres:
		errAndDie(logger, database.CreateIfNotExist(conf))
		sqlxDB, err := database.Open(conf)
		errAndDie(logger, err)
		defer func() { _ = sqlxDB.Close() }()

		db = sqlxDB.DB
		sessionRepo = sqlxrepos.NewSessionRepository(sqlxDB)
		recordRepo = sqlxrepos.NewRecordRepository(sqlxDB)
	default:
		memDB, err := inmemdb.Open()
		errAndDie(logger, err)
		sessionRepo = inmemdb.NewSessionRepository(memDB)
		recordRepo = inmemdb.NewRecordRepository(memDB)
	}

	rstr := roster.Default()
	svc := attendance.NewService(
		session.NewRegistry(sessionRepo, conf.Attendance.DefaultClassID),
		attendance.NewRecorder(recordRepo, conf.Attendance.MaxAge),
		rstr,
		nil, /* mailSvc */
		logger,
	)

	// start CLI
	cli := commandLine{
		db:     db,
		svc:    svc,
		roster: rstr,
		out:    os.Stdout,
		tty:    term.IsTerminal(int(os.Stdout.Fd())),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
