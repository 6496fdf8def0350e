package dig_container

import (
	"fmt"
	"log"
	"os"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/mahudhurio/apps/api/echo"
	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/report"
	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/session"
	emailsvc "github.com/trezcool/mahudhurio/services/email"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
	"github.com/trezcool/mahudhurio/services/scheduler"
	"github.com/trezcool/mahudhurio/storage/database"
	inmemdb "github.com/trezcool/mahudhurio/storage/database/inmem"
	sqlxrepos "github.com/trezcool/mahudhurio/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// StoreCloser releases the storage backend.
type StoreCloser func() error

type Stores struct {
	dig.Out
	Sessions session.Repository
	Records  attendance.Repository
	Close    StoreCloser
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStores(conf *core.Config, loggerParam DBLoggerParam) Stores {
	logger := loggerParam.Logger

	switch conf.Storage {
	case core.StoragePostgres:
		if err := database.CreateIfNotExist(conf); err != nil {
			logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
		}
		db, err := database.Open(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		if err = database.Migrate(db.DB, "up"); err != nil {
			logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
		}
		return Stores{
			Sessions: sqlxrepos.NewSessionRepository(db),
			Records:  sqlxrepos.NewRecordRepository(db),
			Close:    db.Close,
		}

	case core.StorageInMem:
		db, _ := inmemdb.Open()
		logger.Warn("using in-memory storage: sessions and attendance are lost on restart")
		return Stores{
			Sessions: inmemdb.NewSessionRepository(db),
			Records:  inmemdb.NewRecordRepository(db),
			Close:    func() error { return nil },
		}

	default:
		logger.Fatal(fmt.Sprintf("unknown storage %q", conf.Storage))
		return Stores{}
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func newRegistry(conf *core.Config, repo session.Repository) *session.Registry {
	return session.NewRegistry(repo, conf.Attendance.DefaultClassID)
}

func newRecorder(conf *core.Config, repo attendance.Repository) *attendance.Recorder {
	return attendance.NewRecorder(repo, conf.Attendance.MaxAge)
}

func newService(
	registry *session.Registry,
	recorder *attendance.Recorder,
	rstr *roster.Roster,
	mailSvc core.EmailService,
	logger core.Logger,
) *attendance.Service {
	svc := attendance.NewService(registry, recorder, rstr, mailSvc, logger)
	svc.AttachToSummaries(report.ClassAttendanceAttacher(rstr, time.Local))
	return svc
}

func newScheduler(conf *core.Config, svc *attendance.Service, logger core.Logger) (*scheduler.Scheduler, error) {
	return scheduler.New(conf.Attendance.CloseExpiredEvery, svc, logger)
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	svc *attendance.Service,
	rstr *roster.Roster,
	validate *validator.Validate,
	translator ut.Translator,
) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		AttendanceSvc: svc,
		Roster:        rstr,
		Validate:      validate,
		Translator:    translator,
		Location:      time.Local,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStores))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(roster.Default))
	must(c.Provide(newRegistry))
	must(c.Provide(newRecorder))
	must(c.Provide(newService))
	must(c.Provide(newScheduler))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
