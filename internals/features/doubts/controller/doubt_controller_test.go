package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.mongodb.org/mongo-driver/mongo/options"

	doubtDTO "schoolhub_backend/internals/features/doubts/dto"
	"schoolhub_backend/internals/features/doubts/hub"
	doubtModel "schoolhub_backend/internals/features/doubts/model"
)

// A message that cannot be persisted must not reach any room; the failure is
// silent on the wire and the sender learns about it from history.
func TestRelayDeliversNothingWhenStoreUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(100*time.Millisecond))
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	ctl := NewDoubtController(client.Database("school"), hub.New())
	var delivered []hub.Envelope
	ctl.broadcast = func(rooms []string, env hub.Envelope) {
		delivered = append(delivered, env)
	}

	ctl.relay(doubtDTO.ChatMessage{
		SenderID:   primitive.NewObjectID().Hex(),
		SenderType: "Student",
		Text:       "hello",
	})

	assert.Empty(t, delivered, "unpersisted messages must not be broadcast")
}

func TestRelayBroadcastsStoredDocument(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("stored document is what listeners receive", func(mt *mtest.T) {
		sender := primitive.NewObjectID()
		receiver := primitive.NewObjectID()
		subject := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "school.students", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: sender}}),
			mtest.CreateCursorResponse(0, "school.teachers", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: receiver}}),
			mtest.CreateSuccessResponse(),
		)

		ctl := NewDoubtController(mt.Client.Database("school"), hub.New())
		var gotRooms []string
		var delivered []hub.Envelope
		ctl.broadcast = func(rooms []string, env hub.Envelope) {
			gotRooms = rooms
			delivered = append(delivered, env)
		}

		ctl.relay(doubtDTO.ChatMessage{
			SenderID:   sender.Hex(),
			SenderType: "Student",
			ReceiverID: receiver.Hex(),
			Subject:    subject.Hex(),
			Text:       "hello",
		})

		require.Len(mt, delivered, 1)
		assert.Equal(mt, "receive_message", delivered[0].Event)

		doubt, ok := delivered[0].Data.(doubtModel.DoubtModel)
		require.True(mt, ok, "listeners receive the persisted document, not the raw frame")
		assert.False(mt, doubt.ID.IsZero())
		assert.False(mt, doubt.CreatedAt.IsZero())
		assert.Equal(mt, sender, doubt.SenderID)
		assert.Equal(mt, []string{sender.Hex(), receiver.Hex(), subject.Hex()}, gotRooms)
	})
}

func TestChatRooms(t *testing.T) {
	sender := primitive.NewObjectID()
	receiver := primitive.NewObjectID()
	subject := primitive.NewObjectID()

	assert.Equal(t, []string{sender.Hex()},
		chatRooms(doubtModel.DoubtModel{SenderID: sender}))

	got := chatRooms(doubtModel.DoubtModel{
		SenderID:   sender,
		ReceiverID: &receiver,
		Subject:    &subject,
	})
	assert.Equal(t, []string{sender.Hex(), receiver.Hex(), subject.Hex()}, got)
}
