package askcmder_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	askcmder "github.com/papercomputeco/huddle/cmd/huddle/ask"
	"github.com/papercomputeco/huddle/pkg/llm"
)

var _ = Describe("Ask command", func() {
	var (
		tmpDir   string
		upstream *httptest.Server
		requests chan llm.ChatRequest
		out      bytes.Buffer
	)

	setenv := func(key, value string) {
		prev, had := os.LookupEnv(key)
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(func() {
			if had {
				_ = os.Setenv(key, prev)
				return
			}
			_ = os.Unsetenv(key)
		})
	}

	execute := func(stdin io.Reader, args ...string) error {
		cmd := askcmder.NewAskCmd()
		cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
		cmd.PersistentFlags().String("config-dir", "", "Override path to .huddle/ config directory")
		cmd.SetOut(&out)
		cmd.SetErr(io.Discard)
		if stdin != nil {
			cmd.SetIn(stdin)
		}
		cmd.SetArgs(append([]string{"--config-dir", tmpDir}, args...))
		return cmd.Execute()
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "huddle-ask-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, tmpDir)

		out.Reset()
		requests = make(chan llm.ChatRequest, 1)
		upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req llm.ChatRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			requests <- req
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"forty-two"}}]}`))
		}))
		DeferCleanup(upstream.Close)

		setenv("HUDDLE_ASSISTANT_ENDPOINT", upstream.URL)
		setenv("HUDDLE_ASSISTANT_API_KEY", "sk-test")
	})

	It("prints the raw reply to a question given as arguments", func() {
		Expect(execute(nil, "--raw", "what", "is", "the", "answer?")).To(Succeed())
		Expect(out.String()).To(Equal("forty-two\n"))

		var req llm.ChatRequest
		Eventually(requests).Should(Receive(&req))
		Expect(req.Messages).To(HaveLen(2))
		Expect(req.Messages[0].Role).To(Equal(llm.RoleSystem))
		Expect(req.Messages[1].Content).To(Equal("what is the answer?"))
	})

	It("reads the question from stdin when no arguments are given", func() {
		Expect(execute(strings.NewReader("  piped question \n"))).To(Succeed())

		var req llm.ChatRequest
		Eventually(requests).Should(Receive(&req))
		Expect(req.Messages[1].Content).To(Equal("piped question"))
	})

	It("sends the model given on the command line", func() {
		Expect(execute(nil, "--model", "deepseek-coder", "hi")).To(Succeed())

		var req llm.ChatRequest
		Eventually(requests).Should(Receive(&req))
		Expect(req.Model).To(Equal("deepseek-coder"))
	})

	It("fails without a question", func() {
		err := execute(strings.NewReader("   "))
		Expect(err).To(MatchError(ContainSubstring("no question")))
		Consistently(requests).ShouldNot(Receive())
	})
})
