package controller

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	doubtDTO "schoolhub_backend/internals/features/doubts/dto"
	"schoolhub_backend/internals/features/doubts/hub"
	doubtModel "schoolhub_backend/internals/features/doubts/model"
	studentModel "schoolhub_backend/internals/features/students/model"
	teacherModel "schoolhub_backend/internals/features/teachers/model"
	helper "schoolhub_backend/internals/helpers"
)

type DoubtController struct {
	Mongo *mongo.Database
	Hub   *hub.Hub

	broadcast func(rooms []string, env hub.Envelope)
}

func NewDoubtController(mdb *mongo.Database, h *hub.Hub) *DoubtController {
	return &DoubtController{Mongo: mdb, Hub: h, broadcast: h.Broadcast}
}

func (ctl *DoubtController) col() *mongo.Collection {
	return ctl.Mongo.Collection(doubtModel.DoubtModel{}.CollectionName())
}

/* =========================================================
   CREATE
   POST /doubt/add
   ========================================================= */
func (ctl *DoubtController) Create(c *fiber.Ctx) error {
	var req doubtDTO.CreateDoubtRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.SenderID == "" || req.Text == "" || req.SenderType == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Sender, text and sender type are required")
	}

	ctx := c.Context()

	doubt, err := ctl.buildDoubt(ctx, req)
	if err != nil {
		if errors.Is(err, errPartyNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Sender or Receiver not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to create doubt", err)
	}

	res, err := ctl.col().InsertOne(ctx, doubt)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to create doubt", err)
	}
	doubt.ID = res.InsertedID.(primitive.ObjectID)
	return c.Status(fiber.StatusCreated).JSON(doubt)
}

var errPartyNotFound = errors.New("sender or receiver not found")

// buildDoubt validates both parties against their collections and assembles
// the document.
func (ctl *DoubtController) buildDoubt(ctx context.Context, req doubtDTO.CreateDoubtRequest) (doubtModel.DoubtModel, error) {
	var doubt doubtModel.DoubtModel

	senderOID, err := primitive.ObjectIDFromHex(req.SenderID)
	if err != nil {
		return doubt, errPartyNotFound
	}
	if err := ctl.partyExists(ctx, senderOID, req.SenderType); err != nil {
		return doubt, err
	}

	doubt = doubtModel.DoubtModel{
		SenderID:   senderOID,
		SenderName: req.SenderName,
		Text:       req.Text,
		SenderType: req.SenderType,
		CreatedAt:  time.Now().UTC(),
	}

	if req.ReceiverID != "" {
		receiverOID, err := primitive.ObjectIDFromHex(req.ReceiverID)
		if err != nil {
			return doubt, errPartyNotFound
		}
		// the receiver is whichever type the sender is not
		receiverType := "Teacher"
		if req.SenderType != "Student" {
			receiverType = "Student"
		}
		if err := ctl.partyExists(ctx, receiverOID, receiverType); err != nil {
			return doubt, err
		}
		doubt.ReceiverID = &receiverOID
	}
	if req.Subject != "" {
		if oid, err := primitive.ObjectIDFromHex(req.Subject); err == nil {
			doubt.Subject = &oid
		}
	}
	if req.SenderClass != "" {
		if oid, err := primitive.ObjectIDFromHex(req.SenderClass); err == nil {
			doubt.SenderClass = &oid
		}
	}
	if req.ReceiverClass != "" {
		if oid, err := primitive.ObjectIDFromHex(req.ReceiverClass); err == nil {
			doubt.ReceiverClass = &oid
		}
	}
	return doubt, nil
}

func (ctl *DoubtController) partyExists(ctx context.Context, oid primitive.ObjectID, partyType string) error {
	var coll *mongo.Collection
	if partyType == "Student" {
		coll = ctl.Mongo.Collection(studentModel.StudentModel{}.CollectionName())
	} else {
		coll = ctl.Mongo.Collection(teacherModel.TeacherModel{}.CollectionName())
	}
	if err := coll.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errPartyNotFound
		}
		return err
	}
	return nil
}

/* =========================================================
   LIST
   GET /doubt/get?userId=&userType=
   ========================================================= */
func (ctl *DoubtController) GetDoubts(c *fiber.Ctx) error {
	userID := c.Query("userId")
	userType := c.Query("userType")
	if userID == "" || userType == "" {
		return helper.Error(c, fiber.StatusBadRequest, "User ID and Type are required")
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "User ID and Type are required")
	}

	ctx := c.Context()
	cur, err := ctl.col().Find(ctx, bson.M{
		"$or": []bson.M{
			{"senderId": oid},
			{"receiverId": oid},
		},
	}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch doubts", err)
	}
	var doubts []doubtModel.DoubtModel
	if err := cur.All(ctx, &doubts); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch doubts", err)
	}
	return c.Status(fiber.StatusOK).JSON(doubts)
}

/* =========================================================
   CONVERSATION
   GET /doubt/conversation/:senderId/:receiverId
   ========================================================= */
func (ctl *DoubtController) GetConversation(c *fiber.Ctx) error {
	senderOID, err := primitive.ObjectIDFromHex(c.Params("senderId"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid sender or receiver ID")
	}
	receiverOID, err := primitive.ObjectIDFromHex(c.Params("receiverId"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid sender or receiver ID")
	}

	ctx := c.Context()
	cur, err := ctl.col().Find(ctx, bson.M{
		"$or": []bson.M{
			{"senderId": senderOID, "receiverId": receiverOID},
			{"senderId": receiverOID, "receiverId": senderOID},
		},
	}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch conversation", err)
	}
	var doubts []doubtModel.DoubtModel
	if err := cur.All(ctx, &doubts); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch conversation", err)
	}
	return c.Status(fiber.StatusOK).JSON(doubts)
}

/* =========================================================
   SOCKET
   GET /ws/chat
   ========================================================= */

// ChatSocket is the read loop for one connection. Frames are envelopes:
// {"event": "join_room", "data": "<userId>"} or
// {"event": "send_message", "data": {...ChatMessage}}.
func (ctl *DoubtController) ChatSocket(conn *websocket.Conn) {
	defer func() {
		ctl.Hub.Leave(conn)
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var env hub.Envelope
		if err := sonic.Unmarshal(raw, &env); err != nil {
			log.Printf("[WARN] chat frame discarded: %v", err)
			continue
		}

		switch env.Event {
		case "join_room":
			room, _ := env.Data.(string)
			ctl.Hub.Join(room, conn)

		case "send_message":
			payload, err := sonic.Marshal(env.Data)
			if err != nil {
				continue
			}
			var msg doubtDTO.ChatMessage
			if err := sonic.Unmarshal(payload, &msg); err != nil {
				log.Printf("[WARN] chat message discarded: %v", err)
				continue
			}
			ctl.relay(msg)
		}
	}
}

// relay persists the message, then fans out the stored document so every
// listener sees the same _id and createdAt the history endpoints will serve.
// When validation or the insert fails nothing is delivered: the failure is
// logged and the sender finds the gap through conversation history.
func (ctl *DoubtController) relay(msg doubtDTO.ChatMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	doubt, err := ctl.buildDoubt(ctx, doubtDTO.CreateDoubtRequest(msg))
	if err != nil {
		log.Printf("[ERROR] chat message dropped: %v", err)
		return
	}
	res, err := ctl.col().InsertOne(ctx, doubt)
	if err != nil {
		log.Printf("[ERROR] chat message not persisted: %v", err)
		return
	}
	doubt.ID = res.InsertedID.(primitive.ObjectID)

	ctl.broadcast(chatRooms(doubt), hub.Envelope{Event: "receive_message", Data: doubt})
}

// chatRooms is the fan-out set for one stored message: sender always, plus
// the receiver and subject rooms when present.
func chatRooms(doubt doubtModel.DoubtModel) []string {
	rooms := []string{doubt.SenderID.Hex()}
	if doubt.ReceiverID != nil {
		rooms = append(rooms, doubt.ReceiverID.Hex())
	}
	if doubt.Subject != nil {
		rooms = append(rooms, doubt.Subject.Hex())
	}
	return rooms
}
