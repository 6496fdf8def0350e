package echoapi

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/report"
	"github.com/trezcool/mahudhurio/core/roster"
)

type adminApi struct {
	svc    *attendance.Service
	roster *roster.Roster
	loc    *time.Location
}

func registerAdminAPI(g *echo.Group, svc *attendance.Service, rstr *roster.Roster, loc *time.Location) {
	api := adminApi{
		svc:    svc,
		roster: rstr,
		loc:    loc,
	}

	ag := g.Group("/admin")
	ag.GET("/stats", api.stats)
	ag.GET("/report.csv", api.report)
}

// Handlers

func (api *adminApi) stats(ctx echo.Context) error {
	now := api.svc.Registry().Now()
	byClass, total, err := api.svc.PresentByClass(ctx.Request().Context(), startOfDay(now, api.loc))
	if err != nil {
		return errors.Wrap(err, "counting today's attendance")
	}
	return ctx.JSON(http.StatusOK, api.roster.Stats(total, byClass))
}

func (api *adminApi) report(ctx echo.Context) error {
	var buf bytes.Buffer
	if err := report.WriteInstitutionReport(&buf, api.roster.Students()); err != nil {
		return errors.Wrap(err, "writing institution report")
	}
	filename := report.InstitutionReportFilename(api.svc.Registry().Now().In(api.loc))
	return sendCSV(ctx, filename, buf.Bytes())
}
