package attendance

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/session"
)

// Directory tells who owns a class.
type Directory interface {
	TeacherOfClass(classID string) (roster.Teacher, error)
}

// ActiveSessionInfo is what the session owner's screen shows.
type ActiveSessionInfo struct {
	Session       session.Session `json:"session"`
	AttendeeCount int             `json:"attendee_count"`
	Elapsed       time.Duration   `json:"elapsed"`
	ExpiresAt     time.Time       `json:"expires_at"`
	Expired       bool            `json:"expired"`
}

// SummaryAttacher builds the files attached to a session summary mail.
type SummaryAttacher func(sess session.Session, records []Record) ([]core.Attachment, error)

type Service struct {
	registry  *session.Registry
	recorder  *Recorder
	directory Directory
	mailSvc   core.EmailService
	logger    core.Logger
	attach    SummaryAttacher

	ownerMu sync.Mutex // serialises open/close within this process
}

func NewService(
	registry *session.Registry,
	recorder *Recorder,
	directory Directory,
	mailSvc core.EmailService,
	logger core.Logger,
) *Service {
	return &Service{
		registry:  registry,
		recorder:  recorder,
		directory: directory,
		mailSvc:   mailSvc,
		logger:    logger,
	}
}

// AttachToSummaries makes every session summary mail carry the files built by fn.
func (svc *Service) AttachToSummaries(fn SummaryAttacher) { svc.attach = fn }

func (svc *Service) Registry() *session.Registry { return svc.registry }

// MaxAge is how long a session accepts claims after it was opened.
func (svc *Service) MaxAge() time.Duration { return svc.recorder.MaxAge() }

func (svc *Service) OpenSession(ctx context.Context, ns session.NewSession) (session.Session, error) {
	svc.ownerMu.Lock()
	defer svc.ownerMu.Unlock()

	ns.ClassID = core.CleanString(ns.ClassID)
	ns.Subject = core.CleanString(ns.Subject)
	ns.Room = core.CleanString(ns.Room)
	sess, err := svc.registry.OpenSession(ctx, ns)
	if err != nil {
		return session.Session{}, err
	}
	svc.logger.Info(fmt.Sprintf("session opened: %s (%s, %s)", sess.Token, sess.Subject, sess.Room))
	return sess, nil
}

// CloseSession ends the active session and mails its summary to the class teacher.
// It returns the closed session, if there was one.
func (svc *Service) CloseSession(ctx context.Context) (session.Session, bool, error) {
	svc.ownerMu.Lock()
	defer svc.ownerMu.Unlock()
	return svc.closeActive(ctx, func(session.Session) bool { return true })
}

// CloseExpired ends the active session only if it aged out.
func (svc *Service) CloseExpired(ctx context.Context) (session.Session, bool, error) {
	svc.ownerMu.Lock()
	defer svc.ownerMu.Unlock()

	now := svc.registry.Now()
	return svc.closeActive(ctx, func(sess session.Session) bool {
		return sess.Age(now) > svc.recorder.MaxAge()
	})
}

func (svc *Service) closeActive(ctx context.Context, shouldClose func(session.Session) bool) (session.Session, bool, error) {
	sess, ok, err := svc.registry.ActiveSession(ctx)
	if err != nil {
		return session.Session{}, false, err
	}
	if !ok || !shouldClose(sess) {
		return session.Session{}, false, nil
	}
	if err = svc.registry.CloseSession(ctx); err != nil {
		return session.Session{}, false, err
	}
	svc.logger.Info(fmt.Sprintf("session closed: %s", sess.Token))
	svc.sendSummary(ctx, sess)
	return sess, true, nil
}

func (svc *Service) ActiveSession(ctx context.Context) (ActiveSessionInfo, bool, error) {
	sess, ok, err := svc.registry.ActiveSession(ctx)
	if err != nil || !ok {
		return ActiveSessionInfo{}, ok, err
	}
	count, err := svc.recorder.Count(ctx, sess.Token)
	if err != nil {
		return ActiveSessionInfo{}, false, err
	}
	now := svc.registry.Now()
	return ActiveSessionInfo{
		Session:       sess,
		AttendeeCount: count,
		Elapsed:       sess.Age(now),
		ExpiresAt:     sess.CreatedAt.Add(svc.recorder.MaxAge()),
		Expired:       sess.Age(now) > svc.recorder.MaxAge(),
	}, true, nil
}

// Claim records participantID as present. scanned is either the raw token or the scanned QR payload.
func (svc *Service) Claim(ctx context.Context, participantID, scanned string) Outcome {
	token, err := session.ClaimToken(scanned)
	if err != nil {
		return Outcome{Status: RejectedMalformed}
	}
	out := svc.recorder.RecordAttendance(ctx, svc.registry, participantID, token, svc.registry.Now())
	if out.Status == RejectedUnavailable {
		svc.logger.Error(fmt.Sprintf("recording attendance: %v", out.Err), out.Err, core.Participant{ID: participantID})
	}
	return out
}

// Records lists accepted claims matching filter, oldest first.
func (svc *Service) Records(ctx context.Context, filter QueryFilter) ([]Record, error) {
	return svc.recorder.Records(ctx, filter)
}

func (svc *Service) SessionRecords(ctx context.Context, token string) ([]Record, error) {
	return svc.recorder.Records(ctx, QueryFilter{SessionToken: token})
}

// RecordsSince lists every record accepted at or after `from`.
func (svc *Service) RecordsSince(ctx context.Context, from time.Time) ([]Record, error) {
	return svc.recorder.Records(ctx, QueryFilter{RecordedFrom: from})
}

// PresentByClass counts the records accepted at or after `from` per class id, plus their total.
func (svc *Service) PresentByClass(ctx context.Context, from time.Time) (map[string]int, int, error) {
	records, err := svc.RecordsSince(ctx, from)
	if err != nil {
		return nil, 0, err
	}
	// only sessions opened within maxAge of `from` can accept claims after it
	sessions, err := svc.registry.History(ctx, session.QueryFilter{CreatedFrom: from.Add(-svc.recorder.MaxAge())})
	if err != nil {
		return nil, 0, err
	}
	classOf := make(map[string]string, len(sessions))
	for _, sess := range sessions {
		classOf[sess.Token] = sess.ClassID
	}

	counts := make(map[string]int)
	for _, rec := range records {
		classID, ok := classOf[rec.SessionToken]
		if !ok {
			if classID, _, err = session.ParseToken(rec.SessionToken); err != nil {
				continue
			}
		}
		counts[classID]++
	}
	return counts, len(records), nil
}

func (svc *Service) sendSummary(ctx context.Context, sess session.Session) {
	if svc.mailSvc == nil || svc.directory == nil {
		return
	}
	teacher, err := svc.directory.TeacherOfClass(sess.ClassID)
	if err != nil || teacher.Email == "" {
		svc.logger.Debug(fmt.Sprintf("no teacher to notify for class %q", sess.ClassID))
		return
	}
	records, err := svc.SessionRecords(ctx, sess.Token)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("building session summary: %v", err), errors.WithStack(err))
		return
	}
	summary := EmailSummary{Teacher: teacher, Session: sess, Records: records}
	if svc.attach != nil {
		if summary.Attachments, err = svc.attach(sess, records); err != nil {
			svc.logger.Error(fmt.Sprintf("building summary attachments: %v", err), err)
		}
	}
	svc.mailSvc.SendMessages(summary.Message())
}

// EmailSummary is the end-of-session mail sent to the class teacher.
type EmailSummary struct {
	Teacher     roster.Teacher
	Session     session.Session
	Records     []Record
	Attachments []core.Attachment
}

func (s EmailSummary) Message() *core.EmailMessage {
	body := new(strings.Builder)
	_, _ = fmt.Fprintf(body, "Hello %s,\n\n", s.Teacher.Name)
	_, _ = fmt.Fprintf(body, "Your %s session in %s (opened %s) has ended.\n",
		s.Session.Subject, s.Session.Room, s.Session.CreatedAt.Format(time.RFC1123))
	_, _ = fmt.Fprintf(body, "%d student(s) attended:\n", len(s.Records))
	for _, rec := range s.Records {
		_, _ = fmt.Fprintf(body, "  - %s at %s\n", rec.ParticipantID, rec.RecordedAt.Format("15:04:05"))
	}
	return &core.EmailMessage{
		To:          []mail.Address{{Name: s.Teacher.Name, Address: s.Teacher.Email}},
		Subject:     "Attendance summary: " + s.Session.Subject,
		TextContent: body.String(),
		Attachments: s.Attachments,
	}
}
