package roster

import (
	"strconv"
	"strings"
	"time"
)

type Student struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Email                string   `json:"email"`
	RollNumber           string   `json:"roll_number"`
	Semester             int      `json:"semester"`
	Interests            []string `json:"interests"`
	CareerGoals          []string `json:"career_goals"`
	AttendancePercentage int      `json:"attendance_percentage"`
}

type Teacher struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Department string   `json:"department"`
	Subjects   []string `json:"subjects"`
}

// ClassSession is a scheduled class. StartTime and EndTime are "HH:MM".
type ClassSession struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Room        string `json:"room"`
}

func (c ClassSession) startMinute() int { return minuteOfDay(c.StartTime) }
func (c ClassSession) endMinute() int   { return minuteOfDay(c.EndTime) }

const (
	SuggestionAcademic = "academic"
	SuggestionCareer   = "career"
	SuggestionSkill    = "skill"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type Suggestion struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	EstimatedTime string `json:"estimated_time"`
	Priority      string `json:"priority"`
}

// mentions reports whether the suggestion talks about topic (case-insensitive).
func (s Suggestion) mentions(topic string) bool {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s.Title), topic) ||
		strings.Contains(strings.ToLower(s.Description), topic)
}

// Stats are the aggregate counts shown on the admin dashboard.
type Stats struct {
	TotalStudents   int `json:"total_students"`
	TotalTeachers   int `json:"total_teachers"`
	TotalClasses    int `json:"total_classes"`
	AvgAttendance   int `json:"avg_attendance"`
	TodayAttendance int `json:"today_attendance"`

	Distribution  AttendanceDistribution `json:"distribution"`
	TodayActivity []ClassActivity        `json:"today_activity"`
}

// AttendanceDistribution buckets students by attendance percentage.
type AttendanceDistribution struct {
	Excellent        int `json:"excellent"`         // 90% and above
	Good             int `json:"good"`              // 75% to 89%
	NeedsImprovement int `json:"needs_improvement"` // below 75%
}

// ClassActivity is a scheduled class with the number of students present today.
type ClassActivity struct {
	ClassSession
	Present int `json:"present"`
}

// minuteOfDay parses "HH:MM"; malformed values give -1.
func minuteOfDay(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return -1
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return -1
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return -1
	}
	return h*60 + m
}

func clockMinute(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
