package schema

// Messages is the transcript: the ordered list of messages exchanged with the
// model during one request. Entries are only ever appended.
type Messages struct {
	Messages []Message
}

// NewMessages returns a Messages initialised with a copy of msgs.
// Called with no arguments it returns an empty Messages ready for use.
func NewMessages(msgs ...Message) Messages {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return Messages{Messages: out}
}

// Len returns the number of messages in the transcript.
func (mh *Messages) Len() int { return len(mh.Messages) }

// Add appends m as is.
func (mh *Messages) Add(m Message) {
	mh.Messages = append(mh.Messages, m)
}

// AddSystem appends a system message.
func (mh *Messages) AddSystem(content string) {
	mh.Add(NewSystemMessage(content))
}

// AddUser appends a user message.
func (mh *Messages) AddUser(content string) {
	mh.Add(NewUserMessage(content))
}

// AddAssistant appends an assistant message with optional tool calls.
func (mh *Messages) AddAssistant(content string, toolCalls []ToolCall) {
	mh.Add(NewAssistantMessage(content, toolCalls))
}

// AddToolResult appends a tool-result message.
func (mh *Messages) AddToolResult(toolCallID, toolName, result string) {
	mh.Add(NewToolResultMessage(toolCallID, toolName, result))
}

// LastUser returns the content of the most recent user message.
func (mh *Messages) LastUser() (string, bool) {
	for i := len(mh.Messages) - 1; i >= 0; i-- {
		if mh.Messages[i].Role == RoleUser {
			return mh.Messages[i].Content, true
		}
	}
	return "", false
}

// Systems returns the system messages in transcript order.
func (mh *Messages) Systems() []Message {
	var out []Message
	for _, m := range mh.Messages {
		if m.Role == RoleSystem {
			out = append(out, m)
		}
	}
	return out
}

// Clone returns a copy of mh with an independent backing slice.
func (mh *Messages) Clone() Messages {
	cloned := make([]Message, len(mh.Messages))
	copy(cloned, mh.Messages)
	return Messages{Messages: cloned}
}
