package llm

// Options contains model selection and sampling parameters.
// Every field is optional: an empty Model or nil pointer means "not supplied".
type Options struct {
	Model string `json:"model,omitempty" toml:"model,omitempty"`

	// Sampling parameters
	Temperature *float64 `json:"temperature,omitempty" toml:"temperature,omitempty"` // Creativity (0.0-2.0)
	TopP        *float64 `json:"top_p,omitempty" toml:"top_p,omitempty"`             // Nucleus sampling threshold

	// Length parameters
	MaxTokens *int `json:"max_tokens,omitempty" toml:"max_tokens,omitempty"` // Max tokens to generate

	// Repetition control
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty" toml:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty" toml:"presence_penalty,omitempty"`
}

// Merge returns o with every unset field taken from defaults.
// Fields are merged one by one, so a supplied MaxTokens survives an absent
// Temperature and vice versa.
func (o Options) Merge(defaults Options) Options {
	out := o
	if out.Model == "" {
		out.Model = defaults.Model
	}
	if out.Temperature == nil {
		out.Temperature = defaults.Temperature
	}
	if out.TopP == nil {
		out.TopP = defaults.TopP
	}
	if out.MaxTokens == nil {
		out.MaxTokens = defaults.MaxTokens
	}
	if out.FrequencyPenalty == nil {
		out.FrequencyPenalty = defaults.FrequencyPenalty
	}
	if out.PresencePenalty == nil {
		out.PresencePenalty = defaults.PresencePenalty
	}
	return out
}

// Float returns a pointer to v, for filling optional Options fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for filling optional Options fields.
func Int(v int) *int { return &v }
