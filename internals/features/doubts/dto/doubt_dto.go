package dto

type CreateDoubtRequest struct {
	SenderID      string `json:"senderId"`
	SenderName    string `json:"senderName"`
	ReceiverID    string `json:"receiverId"`
	Subject       string `json:"subject"`
	Text          string `json:"text"`
	SenderType    string `json:"senderType"`
	SenderClass   string `json:"senderClass"`
	ReceiverClass string `json:"receiverClass"`
}

// ChatMessage is the payload of a send_message frame; it mirrors
// CreateDoubtRequest because every relayed message is also persisted.
type ChatMessage struct {
	SenderID      string `json:"senderId"`
	SenderName    string `json:"senderName"`
	ReceiverID    string `json:"receiverId"`
	Subject       string `json:"subject"`
	Text          string `json:"text"`
	SenderType    string `json:"senderType"`
	SenderClass   string `json:"senderClass"`
	ReceiverClass string `json:"receiverClass"`
}
