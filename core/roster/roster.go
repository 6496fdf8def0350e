package roster

import (
	"errors"
	"math"
	"time"
)

const (
	maxSuggestions           = 4
	goodAttendanceLevel      = 75
	excellentAttendanceLevel = 90

	StandingGood             = "Good"
	StandingNeedsImprovement = "Needs Improvement"
)

var ErrNotFound = errors.New("not found")

// Roster is a read-only directory of students, teachers and today's classes.
type Roster struct {
	students    []Student
	teachers    []Teacher
	classes     []ClassSession
	suggestions []Suggestion
}

func New(students []Student, teachers []Teacher, classes []ClassSession, suggestions []Suggestion) *Roster {
	return &Roster{
		students:    students,
		teachers:    teachers,
		classes:     classes,
		suggestions: suggestions,
	}
}

func (r *Roster) Students() []Student {
	return append([]Student(nil), r.students...)
}

func (r *Roster) Teachers() []Teacher {
	return append([]Teacher(nil), r.teachers...)
}

func (r *Roster) Classes() []ClassSession {
	return append([]ClassSession(nil), r.classes...)
}

func (r *Roster) Student(id string) (Student, error) {
	for _, s := range r.students {
		if s.ID == id {
			return s, nil
		}
	}
	return Student{}, ErrNotFound
}

func (r *Roster) Teacher(id string) (Teacher, error) {
	for _, t := range r.teachers {
		if t.ID == id {
			return t, nil
		}
	}
	return Teacher{}, ErrNotFound
}

func (r *Roster) Class(id string) (ClassSession, error) {
	for _, c := range r.classes {
		if c.ID == id {
			return c, nil
		}
	}
	return ClassSession{}, ErrNotFound
}

// ClassesOf returns the classes taught by teacherID.
func (r *Roster) ClassesOf(teacherID string) []ClassSession {
	classes := make([]ClassSession, 0)
	for _, c := range r.classes {
		if c.TeacherID == teacherID {
			classes = append(classes, c)
		}
	}
	return classes
}

// TeacherOfClass returns who teaches classID.
func (r *Roster) TeacherOfClass(classID string) (Teacher, error) {
	c, err := r.Class(classID)
	if err != nil {
		return Teacher{}, err
	}
	return r.Teacher(c.TeacherID)
}

// CurrentClass returns the class running at `at`, bounds included.
func (r *Roster) CurrentClass(at time.Time) (ClassSession, bool) {
	now := clockMinute(at)
	for _, c := range r.classes {
		if now >= c.startMinute() && now <= c.endMinute() {
			return c, true
		}
	}
	return ClassSession{}, false
}

// NextClass returns the first class starting after `at`.
func (r *Roster) NextClass(at time.Time) (ClassSession, bool) {
	now := clockMinute(at)
	for _, c := range r.classes {
		if c.startMinute() > now {
			return c, true
		}
	}
	return ClassSession{}, false
}

// Suggestions personalises the suggestion list:
// skill suggestions are kept only when they mention one of the student's interests.
func (r *Roster) Suggestions(st Student) []Suggestion {
	out := make([]Suggestion, 0, maxSuggestions)
	for _, sg := range r.suggestions {
		if len(out) == maxSuggestions {
			break
		}
		if sg.Type == SuggestionSkill && !mentionsAny(sg, st.Interests) {
			continue
		}
		out = append(out, sg)
	}
	return out
}

func mentionsAny(sg Suggestion, topics []string) bool {
	for _, t := range topics {
		if sg.mentions(t) {
			return true
		}
	}
	return false
}

// IsFreePeriod is true when the student declared free slots or `at` falls in the 10h-11h or 15h-16h windows.
func IsFreePeriod(at time.Time, freeSlots []string) bool {
	if len(freeSlots) > 0 {
		return true
	}
	h := at.Hour()
	return (h >= 10 && h <= 11) || (h >= 15 && h <= 16)
}

func AttendanceStanding(pct int) string {
	if pct >= goodAttendanceLevel {
		return StandingGood
	}
	return StandingNeedsImprovement
}

// Stats aggregates the roster. todayAttendance is the number of records accepted today
// and presentByClass splits them per class id.
func (r *Roster) Stats(todayAttendance int, presentByClass map[string]int) Stats {
	st := Stats{
		TotalStudents:   len(r.students),
		TotalTeachers:   len(r.teachers),
		TotalClasses:    len(r.classes),
		TodayAttendance: todayAttendance,
		TodayActivity:   make([]ClassActivity, 0, len(r.classes)),
	}
	if len(r.students) > 0 {
		var sum int
		for _, s := range r.students {
			sum += s.AttendancePercentage
			switch {
			case s.AttendancePercentage >= excellentAttendanceLevel:
				st.Distribution.Excellent++
			case s.AttendancePercentage >= goodAttendanceLevel:
				st.Distribution.Good++
			default:
				st.Distribution.NeedsImprovement++
			}
		}
		st.AvgAttendance = int(math.Round(float64(sum) / float64(len(r.students))))
	}
	for _, c := range r.classes {
		st.TodayActivity = append(st.TodayActivity, ClassActivity{ClassSession: c, Present: presentByClass[c.ID]})
	}
	return st
}
