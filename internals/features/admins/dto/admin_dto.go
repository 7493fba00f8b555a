package dto

import (
	adminModel "schoolhub_backend/internals/features/admins/model"
)

type RegisterAdminRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email" validate:"omitempty,email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	SchoolName string `json:"schoolName"`
}

type LoginAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminResponse is the merged view: the authoritative document plus the
// mirror row's numeric id when the natural-key join finds one.
type AdminResponse struct {
	adminModel.AdminModel
	MySQLID *uint64 `json:"mysql_id,omitempty"`
}

func FromAdminModel(m adminModel.AdminModel, mysqlID *uint64) AdminResponse {
	return AdminResponse{AdminModel: m, MySQLID: mysqlID}
}
