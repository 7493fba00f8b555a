package dto

import (
	"time"

	studentModel "schoolhub_backend/internals/features/students/model"
)

type RegisterStudentRequest struct {
	Name       string `json:"name"`
	RollNum    int    `json:"rollNum"`
	Password   string `json:"password"`
	SclassName string `json:"sclassName"`
	AdminID    string `json:"adminID"`
}

type LoginStudentRequest struct {
	RollNum     int    `json:"rollNum"`
	StudentName string `json:"studentName"`
	Password    string `json:"password"`
}

type UpdateStudentRequest struct {
	Name       *string `json:"name"`
	RollNum    *int    `json:"rollNum"`
	Password   *string `json:"password"`
	SclassName *string `json:"sclassName"`
}

type ExamResultRequest struct {
	SubName       string `json:"subName"`
	MarksObtained int    `json:"marksObtained"`
}

type AttendanceRequest struct {
	SubName string    `json:"subName"`
	Status  string    `json:"status"`
	Date    time.Time `json:"date"`
}

type StudentResponse struct {
	studentModel.StudentModel
	MySQLID *uint64 `json:"mysql_id,omitempty"`
}

func FromStudentModel(m studentModel.StudentModel, mysqlID *uint64) StudentResponse {
	return StudentResponse{StudentModel: m, MySQLID: mysqlID}
}

type SchoolRef struct {
	ID         interface{} `json:"_id"`
	SchoolName string      `json:"schoolName"`
}

type SclassRef struct {
	ID         interface{} `json:"_id"`
	SclassName string      `json:"sclassName"`
}

// LoginStudentResponse drops the embedded arrays along with the password;
// a freshly logged-in client fetches them through the detail endpoint.
type LoginStudentResponse struct {
	ID         interface{} `json:"_id"`
	Name       string      `json:"name"`
	RollNum    int         `json:"rollNum"`
	Role       string      `json:"role"`
	School     *SchoolRef  `json:"school"`
	SclassName *SclassRef  `json:"sclassName"`
	MySQLID    *uint64     `json:"mysql_id,omitempty"`
}

type SubjectRef struct {
	ID       interface{} `json:"_id"`
	SubName  string      `json:"subName"`
	Sessions int         `json:"sessions,omitempty"`
}

type AttendanceDetail struct {
	Date    time.Time   `json:"date"`
	Status  string      `json:"status"`
	SubName *SubjectRef `json:"subName"`
}

type ExamResultDetail struct {
	SubName       *SubjectRef `json:"subName"`
	MarksObtained int         `json:"marksObtained"`
}

type StudentDetailResponse struct {
	ID         interface{}        `json:"_id"`
	Name       string             `json:"name"`
	RollNum    int                `json:"rollNum"`
	Role       string             `json:"role,omitempty"`
	School     *SchoolRef         `json:"school"`
	SclassName *SclassRef         `json:"sclassName"`
	Attendance []AttendanceDetail `json:"attendance"`
	ExamResult []ExamResultDetail `json:"examResult"`
	MySQLID    *uint64            `json:"mysql_id,omitempty"`
}
