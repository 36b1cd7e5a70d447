package llm

// ChatRequest represents an OpenAI-compatible chat completion request.
// Unlike Options, every sampling field is always present on the wire.
type ChatRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	Temperature      float64   `json:"temperature"`
	MaxTokens        int       `json:"max_tokens"`
	TopP             float64   `json:"top_p"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
	PresencePenalty  float64   `json:"presence_penalty"`
}

// NewChatRequest builds the wire request from fully merged options.
// Nil option fields are sent as zero values.
func NewChatRequest(msgs []Message, opts Options) ChatRequest {
	req := ChatRequest{
		Model:    opts.Model,
		Messages: msgs,
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}
	if opts.MaxTokens != nil {
		req.MaxTokens = *opts.MaxTokens
	}
	if opts.TopP != nil {
		req.TopP = *opts.TopP
	}
	if opts.FrequencyPenalty != nil {
		req.FrequencyPenalty = *opts.FrequencyPenalty
	}
	if opts.PresencePenalty != nil {
		req.PresencePenalty = *opts.PresencePenalty
	}
	return req
}
