package domain

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Conversation is an append-only chat history. Append never mutates the
// receiver, so earlier states stay valid.
type Conversation []Message

func NewConversation(userPrompt string) Conversation {
	return Conversation{{Role: RoleUser, Content: userPrompt}}
}

func (c Conversation) Append(msgs ...Message) Conversation {
	next := make(Conversation, 0, len(c)+len(msgs))
	next = append(next, c...)
	return append(next, msgs...)
}

// TranslationRequest is what a TranslationRequester sends upstream.
type TranslationRequest struct {
	System       string
	Conversation Conversation
}
