package conversation

import "github.com/atotto/clipboard"

// Clipboard receives copied turn content.
type Clipboard interface {
	WriteText(text string) error
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteText implements Clipboard.
func (SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

// NewSystemClipboard returns the system clipboard, or nil when the platform
// has no clipboard utility available (headless hosts, CI).
func NewSystemClipboard() Clipboard {
	if clipboard.Unsupported {
		return nil
	}
	return SystemClipboard{}
}
