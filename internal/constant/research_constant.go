package constant

const (
	ChatMessageRoleUser   = "user"
	ChatMessageRoleModel  = "model"
	ChatMessageRoleSystem = "system"

	ResearchSessionDefaultTitle = "Unnamed research"

	ResearchGreeting = "Hi, ask me anything about legislative bills."
)
