package mcp_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/huddle/pkg/llm"
	"github.com/papercomputeco/huddle/pkg/logger"
	"github.com/papercomputeco/huddle/pkg/transcript"
	"github.com/papercomputeco/huddle/server/mcp"
)

type echoCompleter struct{}

func (echoCompleter) SendCompletion(_ context.Context, history []llm.Message, _ llm.Options) (string, error) {
	return history[len(history)-1].Content, nil
}

var _ = Describe("MCP Server", func() {
	var registry *transcript.Registry

	BeforeEach(func() {
		registry = transcript.NewRegistry(logger.Nop())
	})

	Describe("NewServer", func() {
		It("requires a completer", func() {
			_, err := mcp.NewServer(mcp.Config{Registry: registry})
			Expect(err).To(MatchError(ContainSubstring("completer is required")))
		})

		It("requires a transcript registry", func() {
			_, err := mcp.NewServer(mcp.Config{Completer: echoCompleter{}})
			Expect(err).To(MatchError(ContainSubstring("transcript registry is required")))
		})

		It("creates a server with an HTTP handler", func() {
			server, err := mcp.NewServer(mcp.Config{
				Completer: echoCompleter{},
				Registry:  registry,
				Logger:    logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
		})
	})
})
