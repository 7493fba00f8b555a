package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DoubtModel is a chat message between a student and a teacher, either
// direct (receiverId) or addressed to a subject room. Primary store only.
type DoubtModel struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	SenderID      primitive.ObjectID  `bson:"senderId" json:"senderId"`
	SenderName    string              `bson:"senderName" json:"senderName"`
	ReceiverID    *primitive.ObjectID `bson:"receiverId,omitempty" json:"receiverId,omitempty"`
	Subject       *primitive.ObjectID `bson:"subject,omitempty" json:"subject,omitempty"`
	Text          string              `bson:"text" json:"text"`
	SenderType    string              `bson:"senderType" json:"senderType"`
	SenderClass   *primitive.ObjectID `bson:"senderClass,omitempty" json:"senderClass,omitempty"`
	ReceiverClass *primitive.ObjectID `bson:"receiverClass,omitempty" json:"receiverClass,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
}

func (DoubtModel) CollectionName() string { return "doubts" }
