package config_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/huddle/pkg/config"
)

var _ = Describe("Watch", func() {
	It("reports writes to the watched file", func() {
		tmpDir, err := os.MkdirTemp("", "watch-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, tmpDir)

		path := filepath.Join(tmpDir, "config.toml")
		Expect(os.WriteFile(path, []byte("version = 0\n"), 0o600)).To(Succeed())

		ctx, cancel := context.WithCancel(context.Background())
		var changes atomic.Int32
		done := make(chan error, 1)
		go func() {
			done <- config.Watch(ctx, path, func() { changes.Add(1) })
		}()

		// The watch registers asynchronously, so keep writing until it fires.
		Eventually(func() int32 {
			_ = os.WriteFile(path, []byte("version = 0\n"), 0o600)
			return changes.Load()
		}).Should(BeNumerically(">", 0))

		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})
})
