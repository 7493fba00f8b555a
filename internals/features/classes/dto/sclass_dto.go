package dto

import (
	adminModel "schoolhub_backend/internals/features/admins/model"
	classModel "schoolhub_backend/internals/features/classes/model"
)

type CreateSclassRequest struct {
	SclassName string `json:"sclassName"`
	AdminID    string `json:"adminID"`
}

type SclassResponse struct {
	classModel.SclassModel
	MySQLID *uint64 `json:"mysql_id"`
}

func FromSclassModel(m classModel.SclassModel, mysqlID *uint64) SclassResponse {
	return SclassResponse{SclassModel: m, MySQLID: mysqlID}
}

// SclassDetailResponse carries the school reference expanded into the full
// admin document, the way the detail endpoint has always returned it.
type SclassDetailResponse struct {
	ID         interface{}           `json:"_id"`
	SclassName string                `json:"sclassName"`
	School     adminModel.AdminModel `json:"school"`
	MySQLID    *uint64               `json:"mysql_id,omitempty"`
}
