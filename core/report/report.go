package report

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/session"
)

const (
	StatusPresent = "present"
	unknown       = "Unknown"

	TimestampLayout = "2006-01-02 15:04:05"
	dayLayout       = "2006-01-02"
)

var (
	classAttendanceHeader   = []string{"Student Name", "Roll Number", "Status", "Timestamp"}
	institutionReportHeader = []string{"Student Name", "Roll Number", "Semester", "Attendance %", "Status"}
)

// StudentLookup resolves participant IDs to students.
type StudentLookup interface {
	Student(id string) (roster.Student, error)
}

// WriteClassAttendance writes one CSV row per record. Participants missing from the roster are "Unknown".
func WriteClassAttendance(w io.Writer, records []attendance.Record, students StudentLookup, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(classAttendanceHeader); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for _, rec := range records {
		name, roll := unknown, unknown
		if st, err := students.Student(rec.ParticipantID); err == nil {
			name, roll = st.Name, st.RollNumber
		}
		row := []string{name, roll, StatusPresent, rec.RecordedAt.In(loc).Format(TimestampLayout)}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "writing record")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

// WriteInstitutionReport writes the admin report: one row per student with their attendance standing.
func WriteInstitutionReport(w io.Writer, students []roster.Student) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(institutionReportHeader); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for _, st := range students {
		row := []string{
			st.Name,
			st.RollNumber,
			strconv.Itoa(st.Semester),
			strconv.Itoa(st.AttendancePercentage) + "%",
			roster.AttendanceStanding(st.AttendancePercentage),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "writing student")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

func ClassAttendanceFilename(subject string, day time.Time) string {
	subject = strings.Join(strings.Fields(subject), "_")
	return fmt.Sprintf("attendance_%s_%s.csv", subject, day.Format(dayLayout))
}

func InstitutionReportFilename(day time.Time) string {
	return fmt.Sprintf("institution_report_%s.csv", day.Format(dayLayout))
}

// ClassAttendanceAttacher returns an attendance.SummaryAttacher that attaches the class attendance CSV.
func ClassAttendanceAttacher(students StudentLookup, loc *time.Location) attendance.SummaryAttacher {
	if loc == nil {
		loc = time.UTC
	}
	return func(sess session.Session, records []attendance.Record) ([]core.Attachment, error) {
		var buf bytes.Buffer
		if err := WriteClassAttendance(&buf, records, students, loc); err != nil {
			return nil, err
		}
		return []core.Attachment{{
			Content:     base64.StdEncoding.EncodeToString(buf.Bytes()),
			ContentType: "text/csv",
			Filename:    ClassAttendanceFilename(sess.Subject, sess.CreatedAt.In(loc)),
		}}, nil
	}
}
