package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SclassModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	SclassName string             `bson:"sclassName" json:"sclassName"`
	School     primitive.ObjectID `bson:"school" json:"school"`
	CreatedAt  time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

func (SclassModel) CollectionName() string { return "sclasses" }

// SclassRow mirrors a class; joined to the document by (sclass_name, admin_id).
type SclassRow struct {
	SclassID   uint64 `gorm:"primaryKey;autoIncrement;column:sclass_id" json:"sclass_id"`
	SclassName string `gorm:"size:255;not null;uniqueIndex:uq_sclass_name_admin;column:sclass_name" json:"sclass_name"`
	AdminID    uint64 `gorm:"not null;uniqueIndex:uq_sclass_name_admin;index;column:admin_id" json:"admin_id"`
}

func (SclassRow) TableName() string { return "sclass" }
