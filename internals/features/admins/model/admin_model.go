package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// AdminModel is the authoritative document. The password travels in bson but
// never in json.
type AdminModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"`
	Role       string             `bson:"role" json:"role"`
	SchoolName string             `bson:"schoolName" json:"schoolName"`
}

func (AdminModel) CollectionName() string { return "admins" }

// AdminRow is the MySQL mirror; joined to the document by email.
type AdminRow struct {
	AdminID    uint64 `gorm:"primaryKey;autoIncrement;column:admin_id" json:"admin_id"`
	Name       string `gorm:"size:255;not null;column:name" json:"name"`
	Email      string `gorm:"size:255;not null;uniqueIndex:uq_admin_email;column:email" json:"email"`
	Password   string `gorm:"size:255;not null;column:password" json:"-"`
	Role       string `gorm:"size:50;not null;default:'Admin';column:role" json:"role"`
	SchoolName string `gorm:"size:255;not null;column:school_name" json:"school_name"`
}

func (AdminRow) TableName() string { return "admin" }
