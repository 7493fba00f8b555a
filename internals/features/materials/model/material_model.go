package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaterialModel holds course-material metadata; the file itself lives in the
// object store and is reachable via FileURL. Primary store only.
type MaterialModel struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	FileURL     string             `bson:"fileUrl" json:"fileUrl"`
	TeacherID   string             `bson:"teacherId" json:"teacherId"`
	SubjectID   string             `bson:"subjectId" json:"subjectId"`
	SclassID    string             `bson:"sclassId" json:"sclassId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (MaterialModel) CollectionName() string { return "materials" }
