package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hhmm string) time.Time {
	t, _ := time.Parse("15:04", hhmm)
	return time.Date(2024, time.March, 4, t.Hour(), t.Minute(), 0, 0, time.UTC)
}

func TestRoster_CurrentAndNextClass(t *testing.T) {
	r := Default()

	tests := []struct {
		name        string
		at          string
		wantCurrent string
		wantNext    string
	}{
		{name: "early morning", at: "07:30", wantNext: "CS001"},
		{name: "class start", at: "09:00", wantCurrent: "CS001", wantNext: "CS002"},
		{name: "class end", at: "10:30", wantCurrent: "CS001", wantNext: "CS002"},
		{name: "between classes", at: "10:31", wantNext: "CS002"},
		{name: "afternoon class", at: "14:45", wantCurrent: "CS003"},
		{name: "evening", at: "18:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur, ok := r.CurrentClass(at(tt.at))
			assert.Equal(t, tt.wantCurrent != "", ok)
			assert.Equal(t, tt.wantCurrent, cur.ID)

			next, ok := r.NextClass(at(tt.at))
			assert.Equal(t, tt.wantNext != "", ok)
			assert.Equal(t, tt.wantNext, next.ID)
		})
	}
}

func TestRoster_Lookups(t *testing.T) {
	r := Default()

	teacher, err := r.TeacherOfClass("CS003")
	assert.NoError(t, err)
	assert.Equal(t, "T001", teacher.ID)

	_, err = r.TeacherOfClass("CLASS")
	assert.Equal(t, ErrNotFound, err)

	assert.Len(t, r.ClassesOf("T001"), 2)
	assert.Empty(t, r.ClassesOf("T999"))

	st, err := r.Student("S002")
	assert.NoError(t, err)
	assert.Equal(t, "Bob Smith", st.Name)

	students := r.Students()
	students[0].Name = "changed"
	st, _ = r.Student("S001")
	assert.Equal(t, "Alice Johnson", st.Name)
}

func TestRoster_Suggestions(t *testing.T) {
	r := Default()

	ids := func(sgs []Suggestion) []string {
		out := make([]string, 0, len(sgs))
		for _, sg := range sgs {
			out = append(out, sg.ID)
		}
		return out
	}

	alice, _ := r.Student("S001")
	assert.Equal(t, []string{"P001", "P002", "P004"}, ids(r.Suggestions(alice)))

	reactFan := Student{ID: "S100", Interests: []string{"react"}}
	assert.Equal(t, []string{"P001", "P002", "P003", "P004"}, ids(r.Suggestions(reactFan)))
}

func TestIsFreePeriod(t *testing.T) {
	tests := []struct {
		at    string
		slots []string
		want  bool
	}{
		{at: "09:30", want: false},
		{at: "10:00", want: true},
		{at: "11:59", want: true},
		{at: "12:00", want: false},
		{at: "15:10", want: true},
		{at: "16:45", want: true},
		{at: "17:00", want: false},
		{at: "09:30", slots: []string{"09:00-10:00"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.at, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFreePeriod(at(tt.at), tt.slots))
		})
	}
}

func TestAttendanceStanding(t *testing.T) {
	assert.Equal(t, StandingGood, AttendanceStanding(75))
	assert.Equal(t, StandingGood, AttendanceStanding(100))
	assert.Equal(t, StandingNeedsImprovement, AttendanceStanding(74))
}

func TestRoster_Stats(t *testing.T) {
	rstr := Default()
	st := rstr.Stats(7, map[string]int{"CS001": 5, "CS003": 1, "GONE": 1})
	assert.Equal(t, 3, st.TotalStudents)
	assert.Equal(t, 2, st.TotalTeachers)
	assert.Equal(t, 3, st.TotalClasses)
	assert.Equal(t, 91, st.AvgAttendance) // (92+87+95)/3 = 91.33
	assert.Equal(t, 7, st.TodayAttendance)
	assert.Equal(t, AttendanceDistribution{Excellent: 2, Good: 1}, st.Distribution)

	present := make(map[string]int, len(st.TodayActivity))
	for _, act := range st.TodayActivity {
		present[act.ID] = act.Present
	}
	assert.Equal(t, map[string]int{"CS001": 5, "CS002": 0, "CS003": 1}, present)

	empty := New(nil, nil, nil, nil).Stats(0, nil)
	assert.Equal(t, 0, empty.AvgAttendance)
	assert.Equal(t, AttendanceDistribution{}, empty.Distribution)
	assert.Empty(t, empty.TodayActivity)
}

func TestRoster_StatsDistributionBounds(t *testing.T) {
	students := []Student{
		{ID: "A", AttendancePercentage: 90},
		{ID: "B", AttendancePercentage: 89},
		{ID: "C", AttendancePercentage: 75},
		{ID: "D", AttendancePercentage: 74},
	}
	st := New(students, nil, nil, nil).Stats(0, nil)
	assert.Equal(t, AttendanceDistribution{Excellent: 1, Good: 2, NeedsImprovement: 1}, st.Distribution)
}

func TestMinuteOfDay(t *testing.T) {
	tests := map[string]int{
		"00:00": 0,
		"09:30": 570,
		"23:59": 1439,
		"24:00": -1,
		"9h30":  -1,
		"":      -1,
	}
	for in, want := range tests {
		if got := minuteOfDay(in); got != want {
			t.Errorf("minuteOfDay(%q) = %d, want %d", in, got, want)
		}
	}
}
