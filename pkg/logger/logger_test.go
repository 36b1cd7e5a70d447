package logger_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/huddle/pkg/logger"
)

var _ = Describe("Logger", func() {
	It("writes info records with fields", func() {
		var buf bytes.Buffer
		l := logger.NewLoggerWithWriters(false, &buf)
		l.Info("hello", zap.String("key", "value"))

		Expect(buf.String()).To(ContainSubstring("hello"))
		Expect(buf.String()).To(ContainSubstring("value"))
	})

	It("filters debug when not enabled", func() {
		var buf bytes.Buffer
		l := logger.NewLoggerWithWriters(false, &buf)
		l.Debug("hidden")

		Expect(buf.String()).To(BeEmpty())
	})

	It("emits debug when enabled", func() {
		var buf bytes.Buffer
		l := logger.NewLoggerWithWriters(true, &buf)
		l.Debug("visible")

		Expect(buf.String()).To(ContainSubstring("visible"))
	})

	It("fans out to multiple writers", func() {
		var buf1, buf2 bytes.Buffer
		l := logger.NewLoggerWithWriters(false, &buf1, &buf2)
		l.Info("multi")

		Expect(buf1.String()).To(ContainSubstring("multi"))
		Expect(buf2.String()).To(ContainSubstring("multi"))
	})
})
