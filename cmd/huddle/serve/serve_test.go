package servecmder

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/huddle/pkg/config"
	"github.com/papercomputeco/huddle/pkg/llm"
	"github.com/papercomputeco/huddle/pkg/logger"
	"github.com/papercomputeco/huddle/server"
)

type recordingSetter struct {
	got []llm.Options
}

func (r *recordingSetter) SetDefaults(opts llm.Options) {
	r.got = append(r.got, opts)
}

var _ = Describe("NewServeCmd", func() {
	It("registers the shared server flags", func() {
		cmd := NewServeCmd()
		Expect(cmd.Use).To(Equal("serve"))

		for _, key := range serveFlags {
			Expect(cmd.Flags().Lookup(config.Flags[key].Name)).NotTo(BeNil(), key)
		}
		Expect(cmd.Flags().Lookup("listen").DefValue).To(Equal(":8787"))
	})
})

var _ = Describe("config reload", func() {
	var (
		cmder  *serveCommander
		setter *recordingSetter
	)

	BeforeEach(func() {
		setter = &recordingSetter{}
		cmder = &serveCommander{logger: logger.Nop()}
	})

	It("hands the reloaded sampling defaults to the server", func() {
		cmder.resolve = func() (*config.Config, error) {
			cfg := config.NewDefaultConfig()
			cfg.Assistant.Model = "deepseek-coder"
			cfg.Assistant.Temperature = llm.Float(0.1)
			return cfg, nil
		}

		cmder.reload(setter)

		Expect(setter.got).To(HaveLen(1))
		Expect(setter.got[0].Model).To(Equal("deepseek-coder"))
		Expect(*setter.got[0].Temperature).To(Equal(0.1))
	})

	It("keeps the running defaults when the new config is invalid", func() {
		cmder.resolve = func() (*config.Config, error) {
			return nil, errors.New("invalid config: temperature: must be no greater than 2")
		}

		cmder.reload(setter)

		Expect(setter.got).To(BeEmpty())
	})
})

var _ = Describe("sampling defaults across a reload", func() {
	var (
		upstream *httptest.Server
		sent     chan llm.ChatRequest
		base     string
		cmder    *serveCommander
		cfg      *config.Config
		srv      *server.Server
	)

	complete := func() llm.ChatRequest {
		resp, err := http.Post(base+"/api/complete", "application/json",
			strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
		Expect(err).NotTo(HaveOccurred())
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var req llm.ChatRequest
		Eventually(sent).Should(Receive(&req))
		return req
	}

	BeforeEach(func() {
		sent = make(chan llm.ChatRequest, 1)
		upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req llm.ChatRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			sent <- req
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
		}))
		DeferCleanup(upstream.Close)

		cfg = config.NewDefaultConfig()
		cfg.Assistant.APIKey = "sk-test"
		cfg.Assistant.Endpoint = upstream.URL
		cfg.Assistant.Temperature = llm.Float(0.2)

		var err error
		srv, err = newServer(cfg, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(srv.Close)

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		go func() { _ = srv.RunWithListener(ln) }()
		DeferCleanup(srv.Shutdown)
		base = "http://" + ln.Addr().String()

		cmder = &serveCommander{logger: logger.Nop()}
	})

	It("uses the configured value at startup", func() {
		Expect(complete().Temperature).To(Equal(0.2))
	})

	It("falls back to the built-in value once the key is unset", func() {
		Expect(complete().Temperature).To(Equal(0.2))

		unset := *cfg
		unset.Assistant.Temperature = nil
		cmder.resolve = func() (*config.Config, error) { return &unset, nil }
		cmder.reload(srv)

		Expect(complete().Temperature).To(Equal(0.7))
	})

	It("applies a changed value", func() {
		changed := *cfg
		changed.Assistant.Temperature = llm.Float(1.1)
		cmder.resolve = func() (*config.Config, error) { return &changed, nil }
		cmder.reload(srv)

		Expect(complete().Temperature).To(Equal(1.1))
	})
})
