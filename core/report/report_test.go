package report

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/session"
)

func TestWriteClassAttendance(t *testing.T) {
	recordedAt := time.Date(2024, time.March, 4, 9, 5, 7, 0, time.UTC)
	records := []attendance.Record{
		{ID: "1", ParticipantID: "S001", SessionToken: "CS001-1709542800000", RecordedAt: recordedAt},
		{ID: "2", ParticipantID: "SIM001", SessionToken: "CS001-1709542800000", RecordedAt: recordedAt.Add(time.Minute)},
	}

	var buf strings.Builder
	require.NoError(t, WriteClassAttendance(&buf, records, roster.Default(), nil))

	want := "Student Name,Roll Number,Status,Timestamp\n" +
		"Alice Johnson,CS2021001,present,2024-03-04 09:05:07\n" +
		"Unknown,Unknown,present,2024-03-04 09:06:07\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteClassAttendance_Location(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)
	records := []attendance.Record{
		{ParticipantID: "S002", RecordedAt: time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)},
	}

	var buf strings.Builder
	require.NoError(t, WriteClassAttendance(&buf, records, roster.Default(), loc))
	assert.Contains(t, buf.String(), "Bob Smith,CS2021002,present,2024-03-04 12:00:00")
}

func TestWriteInstitutionReport(t *testing.T) {
	students := []roster.Student{
		{Name: "Alice Johnson", RollNumber: "CS2021001", Semester: 6, AttendancePercentage: 92},
		{Name: "Dan, Jr.", RollNumber: "CS2021004", Semester: 4, AttendancePercentage: 60},
	}

	var buf strings.Builder
	require.NoError(t, WriteInstitutionReport(&buf, students))

	want := "Student Name,Roll Number,Semester,Attendance %,Status\n" +
		"Alice Johnson,CS2021001,6,92%,Good\n" +
		"\"Dan, Jr.\",CS2021004,4,60%,Needs Improvement\n"
	assert.Equal(t, want, buf.String())
}

func TestFilenames(t *testing.T) {
	day := time.Date(2024, time.March, 4, 16, 0, 0, 0, time.UTC)
	assert.Equal(t, "attendance_Data_Structures_2024-03-04.csv", ClassAttendanceFilename("Data  Structures", day))
	assert.Equal(t, "institution_report_2024-03-04.csv", InstitutionReportFilename(day))
}

func TestClassAttendanceAttacher(t *testing.T) {
	sess := session.Session{Token: "CS001-1709542800000", Subject: "Data Structures", CreatedAt: time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)}
	records := []attendance.Record{{ParticipantID: "S003", SessionToken: sess.Token, RecordedAt: sess.CreatedAt.Add(time.Minute)}}

	attachments, err := ClassAttendanceAttacher(roster.Default(), nil)(sess, records)
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Equal(t, "text/csv", attachments[0].ContentType)
	assert.Equal(t, "attendance_Data_Structures_2024-03-04.csv", attachments[0].Filename)

	content, err := base64.StdEncoding.DecodeString(attachments[0].Content)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Carol Davis,CS2021003,present,2024-03-04 09:01:00")
}
