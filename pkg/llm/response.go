package llm

// ChatResponse represents an OpenAI-compatible chat completion response.
type ChatResponse struct {
	ID      string   `json:"id,omitempty"`
	Object  string   `json:"object,omitempty"`
	Created int64    `json:"created,omitempty"`
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice is one completion alternative. Message is a pointer so a missing
// message can be told apart from an empty one.
type Choice struct {
	Index        int            `json:"index"`
	Message      *ChoiceMessage `json:"message"`
	FinishReason string         `json:"finish_reason,omitempty"`
}

// ChoiceMessage is the assistant message inside a Choice.
type ChoiceMessage struct {
	Role    Role    `json:"role,omitempty"`
	Content *string `json:"content"`
}

// Usage contains token counts reported by the service.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
