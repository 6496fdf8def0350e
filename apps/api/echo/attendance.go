package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
)

type (
	// claimRequest carries either the raw token or the scanned QR payload.
	claimRequest struct {
		ParticipantID string `json:"participant_id" validate:"max=64"`
		Token         string `json:"token" validate:"max=128"`
		Payload       string `json:"payload" validate:"max=2048"`
	}

	claimResponse struct {
		Status  string             `json:"status"`
		Message string             `json:"message"`
		Record  *attendance.Record `json:"record,omitempty"`
		Subject string             `json:"subject,omitempty"`
		Room    string             `json:"room,omitempty"`
	}
)

func (r *claimRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

func (r *claimRequest) scanned() string {
	if strings.TrimSpace(r.Token) != "" {
		return r.Token
	}
	return r.Payload
}

var claimStatusCodes = map[attendance.OutcomeStatus]int{
	attendance.Accepted:            http.StatusOK,
	attendance.RejectedNoSession:   http.StatusNotFound,
	attendance.RejectedExpired:     http.StatusGone,
	attendance.RejectedDuplicate:   http.StatusConflict,
	attendance.RejectedMalformed:   http.StatusBadRequest,
	attendance.RejectedUnavailable: http.StatusServiceUnavailable,
}

type attendanceApi struct {
	svc      *attendance.Service
	validate *validator.Validate
	loc      *time.Location
}

func registerAttendanceAPI(g *echo.Group, svc *attendance.Service, validate *validator.Validate, loc *time.Location) {
	api := attendanceApi{
		svc:      svc,
		validate: validate,
		loc:      loc,
	}

	ag := g.Group("/attendance")
	ag.POST("", api.claim)
	ag.GET("", api.query)
}

// Handlers

func (api *attendanceApi) claim(ctx echo.Context) error {
	var data claimRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to claimRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	out := api.svc.Claim(ctx.Request().Context(), data.ParticipantID, data.scanned())
	resp := claimResponse{
		Status:  out.Status.String(),
		Message: out.Message(),
	}
	if out.Status == attendance.Accepted {
		rec := out.Record
		resp.Record = &rec
	}
	if out.Status == attendance.Accepted || out.Status == attendance.RejectedExpired {
		resp.Subject, resp.Room = out.Session.Subject, out.Session.Room
	}
	return ctx.JSON(claimStatusCodes[out.Status], resp)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	var tr TimeRange
	if err := tr.Bind(ctx, api.loc); err != nil {
		return err
	}
	records, err := api.svc.Records(ctx.Request().Context(), attendance.QueryFilter{
		ParticipantID: ctx.QueryParam("participant_id"),
		SessionToken:  ctx.QueryParam("session"),
		RecordedFrom:  tr.From,
		RecordedTo:    tr.To,
	})
	if err != nil {
		return errors.Wrap(err, "querying records")
	}
	return ctx.JSON(http.StatusOK, records)
}
