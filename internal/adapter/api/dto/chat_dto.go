package dto

// GetMessagesRequest representa a entrada de chat.getMessages
type GetMessagesRequest struct {
	ConversationID string `json:"conversationId" binding:"required"`
}

// CreateConversationRequest representa a entrada de chat.createConversation
type CreateConversationRequest struct {
	Title string `json:"title"`
}

// SendMessageRequest representa a entrada de chat.sendMessage.
// conversationId vazio cria uma nova conversa.
type SendMessageRequest struct {
	ConversationID string `json:"conversationId"`
	Content        string `json:"content" binding:"required"`
	MessageType    string `json:"messageType" binding:"required,oneof=text image"`
}

// DeleteConversationRequest representa a entrada de chat.deleteConversation
type DeleteConversationRequest struct {
	ConversationID string `json:"conversationId" binding:"required"`
}

// DeleteConversationResponse representa a saída de chat.deleteConversation
type DeleteConversationResponse struct {
	Success bool `json:"success"`
}
