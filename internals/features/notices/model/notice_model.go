package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notices live in the primary store only; there is no MySQL mirror.
type NoticeModel struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title   string             `bson:"title" json:"title"`
	Details string             `bson:"details" json:"details"`
	Date    time.Time          `bson:"date" json:"date"`
	School  primitive.ObjectID `bson:"school" json:"school"`
}

func (NoticeModel) CollectionName() string { return "notices" }
