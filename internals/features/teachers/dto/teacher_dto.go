package dto

import (
	"time"

	teacherModel "schoolhub_backend/internals/features/teachers/model"
)

type RegisterTeacherRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email" validate:"omitempty,email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	School       string `json:"school"`
	TeachSubject string `json:"teachSubject"`
	TeachSclass  string `json:"teachSclass"`
}

type LoginTeacherRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateTeacherSubjectRequest struct {
	TeacherID    string `json:"teacherId"`
	TeachSubject string `json:"teachSubject"`
}

type TeacherAttendanceRequest struct {
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
}

type TeacherResponse struct {
	teacherModel.TeacherModel
	MySQLID *uint64 `json:"mysql_id,omitempty"`
}

func FromTeacherModel(m teacherModel.TeacherModel, mysqlID *uint64) TeacherResponse {
	return TeacherResponse{TeacherModel: m, MySQLID: mysqlID}
}

type SubjectRef struct {
	ID       interface{} `json:"_id"`
	SubName  string      `json:"subName"`
	Sessions int         `json:"sessions"`
}

type SchoolRef struct {
	ID         interface{} `json:"_id"`
	SchoolName string      `json:"schoolName"`
}

type SclassRef struct {
	ID         interface{} `json:"_id"`
	SclassName string      `json:"sclassName"`
}

// LoginTeacherResponse is the only authenticated surface: it carries a
// signed token alongside the expanded references.
type LoginTeacherResponse struct {
	ID           interface{} `json:"_id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         string      `json:"role"`
	School       *SchoolRef  `json:"school"`
	TeachSubject *SubjectRef `json:"teachSubject,omitempty"`
	TeachSclass  *SclassRef  `json:"teachSclass,omitempty"`
	Token        string      `json:"token"`
	MySQLID      *uint64     `json:"mysql_id,omitempty"`
}
