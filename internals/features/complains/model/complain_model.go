package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Complains live in the primary store only; there is no MySQL mirror.
type ComplainModel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Date      time.Time          `bson:"date" json:"date"`
	Complaint string             `bson:"complaint" json:"complaint"`
	School    primitive.ObjectID `bson:"school" json:"school"`
}

func (ComplainModel) CollectionName() string { return "complains" }
