package handler

import (
	"net/http"

	"github.com/giw-app/giw/internal/chat"
	"github.com/giw-app/giw/internal/errHandler"
	"github.com/giw-app/giw/internal/request"
	"github.com/giw-app/giw/internal/response"
	"github.com/giw-app/giw/internal/validator"
)

// assistantSystemPrompt frames the model as an in-app helper. It is kept
// server-side so clients cannot override it.
const assistantSystemPrompt = "You are a helpful assistant inside a USDC wallet app. " +
	"Answer questions about the user's wallet, transfers and savings features briefly and accurately. " +
	"Never invent balances or transaction data."

type ChatHandler struct {
	Chat       chat.Client
	ErrHandler *errHandler.ErrorRepository
}

func NewChatHandler(handler *ChatHandler) *ChatHandler {
	return &ChatHandler{
		Chat:       handler.Chat,
		ErrHandler: handler.ErrHandler,
	}
}

type chatMessageInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HandleAssistantChat relays a conversation to the language model provider.
// The full history comes from the client on every call; nothing is stored
// server-side.
func (h *ChatHandler) HandleAssistantChat(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Messages  []chatMessageInput  `json:"messages"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(len(input.Messages) > 0, "At least one message is required")
	for _, message := range input.Messages {
		input.Validator.Check(validator.In(message.Role, chat.RoleUser, chat.RoleAssistant), "Message role must be user or assistant")
		input.Validator.Check(validator.NotBlank(message.Content), "Message content is required")
	}

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	messages := make([]chat.Message, 0, len(input.Messages)+1)
	messages = append(messages, chat.Message{Role: chat.RoleSystem, Content: assistantSystemPrompt})
	for _, message := range input.Messages {
		messages = append(messages, chat.Message{Role: message.Role, Content: message.Content})
	}

	reply, err := h.Chat.Complete(r.Context(), messages)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := map[string]string{
		"reply": reply,
	}
	message := "Reply generated successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
