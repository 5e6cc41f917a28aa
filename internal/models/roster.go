package models

// Role is the resolved role of a user id against the roster.
type Role string

const (
	RoleFaculty      Role = "faculty"
	RoleStudentTutor Role = "student_tutor"
	RoleStudent      Role = "student"
)

// StatusAvailable marks a roster entry that accepts consultations.
const StatusAvailable = "available"

// Faculty is a row of the faculties roster.
type Faculty struct {
	FID       string `db:"f_id" json:"f_id"`
	FName     string `db:"f_name" json:"f_name"`
	FInitial  string `db:"f_initial" json:"f_initial"`
	ConStatus string `db:"con_status" json:"con_status"`
}

// StudentTutor is a row of the student_tutors roster.
type StudentTutor struct {
	STID        string `db:"st_id" json:"st_id"`
	STName      string `db:"st_name" json:"st_name"`
	STInitial   string `db:"st_initial" json:"st_initial"`
	STConStatus string `db:"st_con_status" json:"st_con_status"`
}

// RoleLookup is the answer to GET /role/:user_id. Person is nil for students.
type RoleLookup struct {
	Role   Role        `json:"role"`
	Person interface{} `json:"person"`
}
