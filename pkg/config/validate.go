package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/papercomputeco/huddle/pkg/conversation"
)

// Validate checks ranges and formats of every configured value. The API key
// is not required here; its absence is reported when a request is made.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Assistant),
		validation.Field(&c.Server),
		validation.Field(&c.Chat),
	)
}

func (a AssistantConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Endpoint, validation.Required, is.URL),
		validation.Field(&a.Model, validation.Required),
		validation.Field(&a.Temperature, validation.Min(0.0), validation.Max(2.0)),
		validation.Field(&a.TopP, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&a.FrequencyPenalty, validation.Min(-2.0), validation.Max(2.0)),
		validation.Field(&a.PresencePenalty, validation.Min(-2.0), validation.Max(2.0)),
		// Min skips zero values, so a positive count is checked explicitly.
		validation.Field(&a.MaxTokens, validation.By(positiveInt)),
	)
}

func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Listen, validation.Required, validation.By(listenAddr)),
	)
}

func (c ChatConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Locale, validation.In(stringsToAny(conversation.Locales())...)),
		validation.Field(&c.CopyReset, validation.By(positiveDuration)),
	)
}

func positiveInt(value any) error {
	p, _ := value.(*int)
	if p == nil {
		return nil
	}
	if *p < 1 {
		return errors.New("must be at least 1")
	}
	return nil
}

func listenAddr(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(s); err != nil {
		return fmt.Errorf("must be host:port: %w", err)
	}
	return nil
}

func positiveDuration(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return errors.New("must be a duration such as 2s")
	}
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
