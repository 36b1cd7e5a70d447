package chatcmder

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/huddle/pkg/conversation"
)

var _ = Describe("chat TUI model", func() {
	var (
		completer *scriptedCompleter
		clipboard *memClipboard
		view      *conversation.View
		model     chatModel
	)

	update := func(msg tea.Msg) tea.Cmd {
		next, cmd := model.Update(msg)
		model = next.(chatModel)
		return cmd
	}

	typeText := func(text string) {
		update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	}

	BeforeEach(func() {
		completer = &scriptedCompleter{reply: "**bold** answer"}
		clipboard = &memClipboard{}
		view = conversation.New(completer, conversation.WithClipboard(clipboard))
		DeferCleanup(view.Close)

		model = newChatModel(context.Background(), view, "deepseek-chat")
		update(tea.WindowSizeMsg{Width: 80, Height: 30})
	})

	It("shows the empty prompt before the first message", func() {
		Expect(model.View()).To(ContainSubstring("Ask the assistant anything."))
		Expect(model.View()).To(ContainSubstring("deepseek-chat"))
	})

	It("submits the input on enter and renders the reply", func() {
		typeText("hello")
		update(tea.KeyMsg{Type: tea.KeyEnter})

		Expect(model.input.Value()).To(BeEmpty())
		Eventually(view.InFlight).Should(BeFalse())

		update(viewChangedMsg{})
		Expect(model.View()).To(ContainSubstring("hello"))
		Expect(model.View()).To(ContainSubstring("answer"))
	})

	It("ignores enter on blank input", func() {
		update(tea.KeyMsg{Type: tea.KeyEnter})
		Expect(view.Turns()).To(BeEmpty())
		Expect(model.status).To(BeEmpty())
	})

	It("shows and dismisses the failure banner", func() {
		completer.err = errors.New("API error (401): invalid key")
		typeText("hello")
		update(tea.KeyMsg{Type: tea.KeyEnter})
		Eventually(view.InFlight).Should(BeFalse())
		update(viewChangedMsg{})

		Expect(model.View()).To(ContainSubstring("API error (401): invalid key"))
		Expect(model.View()).To(ContainSubstring("Failed to get a response."))

		update(tea.KeyMsg{Type: tea.KeyEsc})
		Expect(view.Banner()).To(BeEmpty())
		Expect(model.View()).NotTo(ContainSubstring("invalid key"))
	})

	It("copies the last reply", func() {
		typeText("hello")
		update(tea.KeyMsg{Type: tea.KeyEnter})
		Eventually(view.InFlight).Should(BeFalse())

		update(tea.KeyMsg{Type: tea.KeyCtrlY})
		Eventually(clipboard.contents).Should(Equal("**bold** answer"))
		Eventually(view.CopiedID).ShouldNot(BeEmpty())

		update(viewChangedMsg{})
		Expect(model.View()).To(ContainSubstring("Copied"))
	})

	It("clears the conversation", func() {
		typeText("hello")
		update(tea.KeyMsg{Type: tea.KeyEnter})
		Eventually(view.InFlight).Should(BeFalse())

		update(tea.KeyMsg{Type: tea.KeyCtrlL})
		Expect(view.Turns()).To(BeEmpty())
		Expect(model.View()).To(ContainSubstring("Ask the assistant anything."))
	})

	It("quits on ctrl+c", func() {
		cmd := update(tea.KeyMsg{Type: tea.KeyCtrlC})
		Expect(cmd).NotTo(BeNil())
		Expect(cmd()).To(Equal(tea.QuitMsg{}))
	})
})
