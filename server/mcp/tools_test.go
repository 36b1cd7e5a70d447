package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/huddle/pkg/completion"
	"github.com/papercomputeco/huddle/pkg/llm"
	"github.com/papercomputeco/huddle/pkg/logger"
	"github.com/papercomputeco/huddle/pkg/transcript"
)

type recordingCompleter struct {
	history []llm.Message
	opts    llm.Options
	reply   string
	err     error
}

func (r *recordingCompleter) SendCompletion(_ context.Context, history []llm.Message, opts llm.Options) (string, error) {
	r.history = history
	r.opts = opts
	return r.reply, r.err
}

func resultText(res *mcp.CallToolResult) string {
	Expect(res.Content).To(HaveLen(1))
	text, ok := res.Content[0].(*mcp.TextContent)
	Expect(ok).To(BeTrue())
	return text.Text
}

var _ = Describe("Tools", func() {
	var (
		ctx       context.Context
		completer *recordingCompleter
		registry  *transcript.Registry
		server    *Server
	)

	BeforeEach(func() {
		ctx = context.Background()
		completer = &recordingCompleter{reply: "42"}
		registry = transcript.NewRegistry(logger.Nop())

		var err error
		server, err = NewServer(Config{
			Completer: completer,
			Registry:  registry,
			Defaults:  func() llm.Options { return llm.Options{Model: completion.CoderModel} },
			Logger:    logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("ask_assistant", func() {
		It("answers with the history followed by the question", func() {
			res, out, err := server.handleAsk(ctx, nil, AskInput{
				Question: "and the answer?",
				History: []HistoryTurn{
					{Role: "user", Content: "hi"},
					{Role: "assistant", Content: "hello"},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())
			Expect(resultText(res)).To(Equal("42"))
			Expect(out.Answer).To(Equal("42"))

			Expect(completer.history).To(Equal([]llm.Message{
				llm.NewMessage(llm.RoleUser, "hi"),
				llm.NewMessage(llm.RoleAssistant, "hello"),
				llm.NewMessage(llm.RoleUser, "and the answer?"),
			}))
			Expect(completer.opts.Model).To(Equal(completion.CoderModel))
		})

		It("requires a question", func() {
			res, _, err := server.handleAsk(ctx, nil, AskInput{Question: "  "})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(resultText(res)).To(Equal("question is required"))
		})

		It("rejects an invalid history role", func() {
			res, _, err := server.handleAsk(ctx, nil, AskInput{
				Question: "q",
				History:  []HistoryTurn{{Role: "tool", Content: "x"}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
		})

		It("reports assistant failures as tool errors", func() {
			completer.err = &completion.APIError{StatusCode: 429, Message: "rate limited"}

			res, _, err := server.handleAsk(ctx, nil, AskInput{Question: "q"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(resultText(res)).To(ContainSubstring("rate limited"))
		})

		It("reports a missing credential as a tool error", func() {
			completer.err = completion.ErrMissingAPIKey

			res, _, err := server.handleAsk(ctx, nil, AskInput{Question: "q"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(resultText(res)).To(ContainSubstring(completion.ErrMissingAPIKey.Error()))
		})
	})

	Describe("get_transcript", func() {
		It("returns the call's items", func() {
			Expect(registry.Ingest("standup", transcript.Event{Type: transcript.EventTranscriptionStarted})).To(Succeed())
			Expect(registry.Ingest("standup", transcript.Event{
				Type: transcript.EventClosedCaption,
				ClosedCaption: &transcript.ClosedCaption{
					Text:      "morning all",
					SpeakerID: "alice",
					User:      &transcript.User{ID: "alice", Name: "Alice"},
				},
			})).To(Succeed())

			res, out, err := server.handleGetTranscript(ctx, nil, TranscriptInput{CallID: "standup"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())
			Expect(out.Transcribing).To(BeTrue())
			Expect(out.Items).To(HaveLen(1))
			Expect(out.Items[0].ParticipantName).To(Equal("Alice"))
			Expect(resultText(res)).To(ContainSubstring("morning all"))
		})

		It("reports unknown calls", func() {
			res, _, err := server.handleGetTranscript(ctx, nil, TranscriptInput{CallID: "nope"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
		})

		It("requires a call id", func() {
			res, _, err := server.handleGetTranscript(ctx, nil, TranscriptInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
		})
	})
})
