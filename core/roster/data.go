package roster

// Default returns the demo dataset.
func Default() *Roster {
	return New(
		[]Student{
			{
				ID:                   "S001",
				Name:                 "Alice Johnson",
				Email:                "alice.johnson@college.edu",
				RollNumber:           "CS2021001",
				Semester:             6,
				Interests:            []string{"Web Development", "AI/ML", "Data Science"},
				CareerGoals:          []string{"Software Engineer", "Full Stack Developer"},
				AttendancePercentage: 92,
			},
			{
				ID:                   "S002",
				Name:                 "Bob Smith",
				Email:                "bob.smith@college.edu",
				RollNumber:           "CS2021002",
				Semester:             6,
				Interests:            []string{"Mobile Development", "UI/UX", "Game Development"},
				CareerGoals:          []string{"Mobile App Developer", "Product Manager"},
				AttendancePercentage: 87,
			},
			{
				ID:                   "S003",
				Name:                 "Carol Davis",
				Email:                "carol.davis@college.edu",
				RollNumber:           "CS2021003",
				Semester:             6,
				Interests:            []string{"Cybersecurity", "Network Administration", "Ethical Hacking"},
				CareerGoals:          []string{"Security Analyst", "DevOps Engineer"},
				AttendancePercentage: 95,
			},
		},
		[]Teacher{
			{
				ID:         "T001",
				Name:       "Dr. Sarah Wilson",
				Email:      "sarah.wilson@college.edu",
				Department: "Computer Science",
				Subjects:   []string{"Data Structures", "Algorithms", "Database Systems"},
			},
			{
				ID:         "T002",
				Name:       "Prof. Michael Brown",
				Email:      "michael.brown@college.edu",
				Department: "Computer Science",
				Subjects:   []string{"Web Development", "Software Engineering", "Project Management"},
			},
		},
		[]ClassSession{
			{ID: "CS001", Subject: "Data Structures", TeacherID: "T001", TeacherName: "Dr. Sarah Wilson", StartTime: "09:00", EndTime: "10:30", Room: "CS-101"},
			{ID: "CS002", Subject: "Web Development", TeacherID: "T002", TeacherName: "Prof. Michael Brown", StartTime: "11:00", EndTime: "12:30", Room: "CS-102"},
			{ID: "CS003", Subject: "Database Systems", TeacherID: "T001", TeacherName: "Dr. Sarah Wilson", StartTime: "14:00", EndTime: "15:30", Room: "CS-103"},
		},
		[]Suggestion{
			{
				ID:            "P001",
				Type:          SuggestionAcademic,
				Title:         "Review Data Structures Notes",
				Description:   "Go through today's lecture on binary trees and practice implementation",
				EstimatedTime: "30 minutes",
				Priority:      PriorityHigh,
			},
			{
				ID:            "P002",
				Type:          SuggestionCareer,
				Title:         "Update LinkedIn Profile",
				Description:   "Add recent project experience and skills to your professional profile",
				EstimatedTime: "20 minutes",
				Priority:      PriorityMedium,
			},
			{
				ID:            "P003",
				Type:          SuggestionSkill,
				Title:         "Complete React Tutorial",
				Description:   "Continue with the React hooks tutorial on your learning platform",
				EstimatedTime: "45 minutes",
				Priority:      PriorityMedium,
			},
			{
				ID:            "P004",
				Type:          SuggestionAcademic,
				Title:         "Prepare for Database Quiz",
				Description:   "Review SQL queries and normalization concepts for tomorrow's quiz",
				EstimatedTime: "40 minutes",
				Priority:      PriorityHigh,
			},
		},
	)
}
