package conversation

import "strings"

// DefaultLocale is used when no catalog matches the requested locale.
const DefaultLocale = "en"

// Messages is the set of fixed user-facing strings for one locale.
type Messages struct {
	// Failure replaces the content of an assistant turn whose request failed.
	Failure string

	Pending string
	Copied  string
	Empty   string
}

var catalogs = map[string]Messages{
	"en": {
		Failure: "Failed to get a response. Please try again.",
		Pending: "AI is typing...",
		Copied:  "Copied",
		Empty:   "Ask the assistant anything.",
	},
	"ru": {
		Failure: "Ошибка при получении ответа. Пожалуйста, попробуйте еще раз.",
		Pending: "AI печатает...",
		Copied:  "Скопировано",
		Empty:   "Задайте вопрос ассистенту.",
	},
}

// Catalog returns the messages for locale. Region suffixes such as "ru_RU"
// or "en-US.UTF-8" are ignored, and unknown locales fall back to English.
func Catalog(locale string) Messages {
	lang := strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(lang, "_-."); i >= 0 {
		lang = lang[:i]
	}

	if m, ok := catalogs[lang]; ok {
		return m
	}
	return catalogs[DefaultLocale]
}

// Locales lists the supported locale codes.
func Locales() []string {
	return []string{"en", "ru"}
}
