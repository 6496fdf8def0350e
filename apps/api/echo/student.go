package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/roster"
)

type dashboardResponse struct {
	Student            roster.Student       `json:"student"`
	AttendanceStanding string               `json:"attendance_standing"`
	CurrentClass       *roster.ClassSession `json:"current_class"`
	NextClass          *roster.ClassSession `json:"next_class"`
	FreePeriod         bool                 `json:"free_period"`
	Suggestions        []roster.Suggestion  `json:"suggestions"`
	AttendedToday      []attendance.Record  `json:"attended_today"`
}

type studentApi struct {
	svc    *attendance.Service
	roster *roster.Roster
	loc    *time.Location
}

func registerStudentAPI(g *echo.Group, svc *attendance.Service, rstr *roster.Roster, loc *time.Location) {
	api := studentApi{
		svc:    svc,
		roster: rstr,
		loc:    loc,
	}

	sg := g.Group("/students")
	sg.GET("/:id/dashboard", api.dashboard)
}

// Handlers

// dashboard accepts an optional `free_slots` query param: a comma separated list of declared free slots.
func (api *studentApi) dashboard(ctx echo.Context) error {
	st, err := api.roster.Student(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	now := api.svc.Registry().Now().In(api.loc)
	attended, err := api.svc.Records(ctx.Request().Context(), attendance.QueryFilter{
		ParticipantID: st.ID,
		RecordedFrom:  startOfDay(now, api.loc),
	})
	if err != nil {
		return errors.Wrap(err, "querying student records")
	}

	resp := dashboardResponse{
		Student:            st,
		AttendanceStanding: roster.AttendanceStanding(st.AttendancePercentage),
		FreePeriod:         roster.IsFreePeriod(now, freeSlots(ctx.QueryParam("free_slots"))),
		Suggestions:        api.roster.Suggestions(st),
		AttendedToday:      attended,
	}
	if c, ok := api.roster.CurrentClass(now); ok {
		resp.CurrentClass = &c
	}
	if c, ok := api.roster.NextClass(now); ok {
		resp.NextClass = &c
	}
	return ctx.JSON(http.StatusOK, resp)
}

func freeSlots(param string) []string {
	var slots []string
	for _, s := range strings.Split(param, ",") {
		if s = strings.TrimSpace(s); s != "" {
			slots = append(slots, s)
		}
	}
	return slots
}
