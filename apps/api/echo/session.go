package echoapi

import (
	"bytes"
	"mime"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/report"
	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/session"
)

type (
	openSessionRequest struct {
		session.NewSession
	}

	sessionResponse struct {
		Session   session.Session   `json:"session"`
		ShortID   string            `json:"short_id"`
		ExpiresAt time.Time         `json:"expires_at"`
		QRPayload session.QRPayload `json:"qr_payload"`
	}

	attendeeResponse struct {
		attendance.Record
		StudentName string `json:"student_name,omitempty"`
		RollNumber  string `json:"roll_number,omitempty"`
	}
)

func (r *openSessionRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

type sessionApi struct {
	svc      *attendance.Service
	roster   *roster.Roster
	validate *validator.Validate
	loc      *time.Location
}

func registerSessionAPI(
	g *echo.Group,
	svc *attendance.Service,
	rstr *roster.Roster,
	validate *validator.Validate,
	loc *time.Location,
) {
	api := sessionApi{
		svc:      svc,
		roster:   rstr,
		validate: validate,
		loc:      loc,
	}
	withActive := activeSessionMiddleware(svc)

	sg := g.Group("/sessions")
	sg.POST("", api.open)
	sg.GET("", api.history)

	ag := sg.Group("/active")
	ag.GET("", api.active, withActive)
	ag.DELETE("", api.close, withActive)
	ag.GET("/qr.png", api.qr, withActive)
	ag.GET("/attendance", api.attendance, withActive)
	ag.GET("/attendance.csv", api.attendanceCSV, withActive)
}

// Handlers

func (api *sessionApi) open(ctx echo.Context) error {
	var data openSessionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sess, err := api.svc.OpenSession(ctx.Request().Context(), data.NewSession)
	if err != nil {
		return errors.Wrap(err, "opening session")
	}
	return ctx.JSON(http.StatusCreated, api.newSessionResponse(sess))
}

func (api *sessionApi) history(ctx echo.Context) error {
	var tr TimeRange
	if err := tr.Bind(ctx, api.loc); err != nil {
		return err
	}
	sessions, err := api.svc.Registry().History(ctx.Request().Context(), session.QueryFilter{
		ClassID:     ctx.QueryParam("class_id"),
		CreatedFrom: tr.From,
		CreatedTo:   tr.To,
	})
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *sessionApi) active(ctx echo.Context) error {
	info, err := getActiveSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, info)
}

func (api *sessionApi) close(ctx echo.Context) error {
	sess, ok, err := api.svc.CloseSession(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "closing session")
	}
	if !ok { // closed concurrently
		return errNoActiveSession
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *sessionApi) qr(ctx echo.Context) error {
	info, err := getActiveSession(ctx)
	if err != nil {
		return err
	}
	size, err := intParam(ctx, "size", session.DefaultQRSize, session.MaxQRSize)
	if err != nil {
		return err
	}
	png, err := session.EncodeQR(info.Session, size)
	if err != nil {
		return errors.Wrap(err, "encoding qr code")
	}
	ctx.Response().Header().Set("Cache-Control", "no-store")
	return ctx.Blob(http.StatusOK, "image/png", png)
}

func (api *sessionApi) attendance(ctx echo.Context) error {
	info, err := getActiveSession(ctx)
	if err != nil {
		return err
	}
	records, err := api.svc.SessionRecords(ctx.Request().Context(), info.Session.Token)
	if err != nil {
		return errors.Wrap(err, "querying session records")
	}

	attendees := make([]attendeeResponse, 0, len(records))
	for _, rec := range records {
		att := attendeeResponse{Record: rec}
		if st, err := api.roster.Student(rec.ParticipantID); err == nil {
			att.StudentName, att.RollNumber = st.Name, st.RollNumber
		}
		attendees = append(attendees, att)
	}
	return ctx.JSON(http.StatusOK, attendees)
}

func (api *sessionApi) attendanceCSV(ctx echo.Context) error {
	info, err := getActiveSession(ctx)
	if err != nil {
		return err
	}
	records, err := api.svc.SessionRecords(ctx.Request().Context(), info.Session.Token)
	if err != nil {
		return errors.Wrap(err, "querying session records")
	}

	var buf bytes.Buffer
	if err = report.WriteClassAttendance(&buf, records, api.roster, api.loc); err != nil {
		return errors.Wrap(err, "writing attendance csv")
	}
	filename := report.ClassAttendanceFilename(info.Session.Subject, info.Session.CreatedAt.In(api.loc))
	return sendCSV(ctx, filename, buf.Bytes())
}

func (api *sessionApi) newSessionResponse(sess session.Session) sessionResponse {
	return sessionResponse{
		Session:   sess,
		ShortID:   sess.ShortToken(),
		ExpiresAt: sess.CreatedAt.Add(api.svc.MaxAge()),
		QRPayload: session.NewQRPayload(sess),
	}
}

func sendCSV(ctx echo.Context, filename string, data []byte) error {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, disposition)
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}
