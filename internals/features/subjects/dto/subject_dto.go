package dto

import (
	subjectModel "schoolhub_backend/internals/features/subjects/model"
)

type SubjectInput struct {
	SubName  string `json:"subName"`
	SubCode  string `json:"subCode"`
	Sessions int    `json:"sessions"`
}

// CreateSubjectsRequest carries a batch: one class, one school, many subjects.
type CreateSubjectsRequest struct {
	Subjects   []SubjectInput `json:"subjects"`
	AdminID    string         `json:"adminID"`
	SclassName string         `json:"sclassName"`
}

type SubjectResponse struct {
	subjectModel.SubjectModel
	MySQLID *uint64 `json:"mysql_id"`
}

func FromSubjectModel(m subjectModel.SubjectModel, mysqlID *uint64) SubjectResponse {
	return SubjectResponse{SubjectModel: m, MySQLID: mysqlID}
}

// Ref types for the detail endpoint, where object ids are expanded into
// small named references.
type SclassRef struct {
	ID         interface{} `json:"_id"`
	SclassName string      `json:"sclassName"`
}

type TeacherRef struct {
	ID   interface{} `json:"_id"`
	Name string      `json:"name"`
}

type SubjectDetailResponse struct {
	ID         interface{} `json:"_id"`
	SubName    string      `json:"subName"`
	SubCode    string      `json:"subCode"`
	Sessions   int         `json:"sessions"`
	SclassName *SclassRef  `json:"sclassName"`
	School     interface{} `json:"school"`
	Teacher    *TeacherRef `json:"teacher,omitempty"`
	MySQLID    *uint64     `json:"mysql_id,omitempty"`
}
