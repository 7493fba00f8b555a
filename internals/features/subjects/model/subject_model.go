package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type SubjectModel struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	SubName    string              `bson:"subName" json:"subName"`
	SubCode    string              `bson:"subCode" json:"subCode"`
	Sessions   int                 `bson:"sessions" json:"sessions"`
	SclassName primitive.ObjectID  `bson:"sclassName" json:"sclassName"`
	School     primitive.ObjectID  `bson:"school" json:"school"`
	Teacher    *primitive.ObjectID `bson:"teacher,omitempty" json:"teacher,omitempty"`
}

func (SubjectModel) CollectionName() string { return "subjects" }

// SubjectRow mirrors a subject; joined to the document by (sub_code, admin_id).
// teacher_id is the mutual back-reference to teachers.subject_id.
type SubjectRow struct {
	SubjectID uint64  `gorm:"primaryKey;autoIncrement;column:subject_id" json:"subject_id"`
	SubName   string  `gorm:"size:255;not null;column:sub_name" json:"sub_name"`
	SubCode   string  `gorm:"size:100;not null;uniqueIndex:uq_subjects_code_admin;column:sub_code" json:"sub_code"`
	Sessions  int     `gorm:"not null;column:sessions" json:"sessions"`
	SclassID  uint64  `gorm:"not null;index;column:sclass_id" json:"sclass_id"`
	AdminID   uint64  `gorm:"not null;uniqueIndex:uq_subjects_code_admin;index;column:admin_id" json:"admin_id"`
	TeacherID *uint64 `gorm:"index;column:teacher_id" json:"teacher_id"`
}

func (SubjectRow) TableName() string { return "subjects" }
