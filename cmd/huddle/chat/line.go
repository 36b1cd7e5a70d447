package chatcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/papercomputeco/huddle/pkg/cliui"
	"github.com/papercomputeco/huddle/pkg/conversation"
)

// copyConfirmTimeout bounds the wait for a background clipboard write.
const copyConfirmTimeout = 2 * time.Second

var (
	userPrompt      = cliui.UserStyle.Render("you> ")
	assistantPrompt = cliui.AssistantStyle.Render("assistant> ")
)

// runLine drives a conversation one input line at a time.
func (c *chatCommander) runLine(ctx context.Context, in io.Reader, out io.Writer) error {
	changed := make(chan struct{}, 1)
	view := c.newView(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer view.Close()

	fmt.Fprintf(out, "\n  %s %s\n", cliui.KeyStyle.Render("Model:"), cliui.ValueStyle.Render(c.modelName()))
	fmt.Fprintf(out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /clear, /copy, /exit or Ctrl+D."))

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, userPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/clear":
			view.Clear()
			fmt.Fprintf(out, "  %s %s\n\n", cliui.SuccessMark, cliui.DimStyle.Render("Conversation cleared"))
			continue
		case "/copy":
			c.copyLast(view, out, changed)
			continue
		}

		done, err := view.Submit(ctx, input)
		if err != nil {
			fmt.Fprintf(out, "  %s %v\n\n", cliui.FailMark, err)
			continue
		}

		var elapsed time.Duration
		if cliui.IsTerminal(out) {
			elapsed = cliui.Wait(out, view.Messages().Pending, done)
		} else {
			start := time.Now()
			<-done
			elapsed = time.Since(start)
		}

		if ctx.Err() != nil {
			return nil
		}
		c.printReply(view, out, elapsed)
	}

	return scanner.Err()
}

func (c *chatCommander) printReply(view *conversation.View, out io.Writer, elapsed time.Duration) {
	reply, ok := view.LastReply()
	if !ok {
		return
	}

	if reply.Failed {
		fmt.Fprintf(out, "%s%s %s\n", assistantPrompt, cliui.FailMark, cliui.ErrorStyle.Render(reply.Content))
		if banner := view.Banner(); banner != "" {
			fmt.Fprintf(out, "  %s\n", cliui.DimStyle.Render(banner))
			view.DismissBanner()
		}
		fmt.Fprintln(out)
		return
	}

	content := reply.Content
	if cliui.IsTerminal(out) {
		content, _ = cliui.RenderMarkdown(reply.Content, cliui.Width(out, 80))
		fmt.Fprintf(out, "%s\n%s", assistantPrompt, content)
	} else {
		fmt.Fprintf(out, "%s%s\n", assistantPrompt, content)
	}
	fmt.Fprintf(out, "  %s\n\n", cliui.DimStyle.Render(cliui.FormatDuration(elapsed)))
}

// copyLast copies the latest reply and waits for the clipboard write to be
// confirmed.
func (c *chatCommander) copyLast(view *conversation.View, out io.Writer, changed <-chan struct{}) {
	reply, ok := view.LastReply()
	if !ok {
		fmt.Fprintf(out, "  %s\n\n", cliui.DimStyle.Render("Nothing to copy yet"))
		return
	}

	// Drop stale notifications so the wait below only sees this copy.
	select {
	case <-changed:
	default:
	}

	if err := view.Copy(reply.ID); err != nil {
		if errors.Is(err, conversation.ErrNoClipboard) {
			err = errors.New("no clipboard available on this system")
		}
		fmt.Fprintf(out, "  %s %v\n\n", cliui.FailMark, err)
		return
	}

	deadline := time.After(copyConfirmTimeout)
	for view.CopiedID() != reply.ID {
		select {
		case <-changed:
		case <-deadline:
			fmt.Fprintf(out, "  %s %s\n\n", cliui.FailMark, "clipboard write failed, see chat.log")
			return
		}
	}
	fmt.Fprintf(out, "  %s %s\n\n", cliui.SuccessMark, cliui.DimStyle.Render(view.Messages().Copied))
}
