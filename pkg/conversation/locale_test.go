package conversation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/huddle/pkg/conversation"
)

var _ = Describe("Catalog", func() {
	DescribeTable("locale resolution",
		func(locale, want string) {
			Expect(conversation.Catalog(locale)).To(Equal(conversation.Catalog(want)))
		},
		Entry("plain english", "en", "en"),
		Entry("plain russian", "ru", "ru"),
		Entry("region suffix", "ru_RU", "ru"),
		Entry("encoding suffix", "ru_RU.UTF-8", "ru"),
		Entry("dash region", "EN-us", "en"),
		Entry("unknown", "fr", "en"),
		Entry("empty", "", "en"),
	)

	It("has a failure message in every locale", func() {
		for _, l := range conversation.Locales() {
			Expect(conversation.Catalog(l).Failure).NotTo(BeEmpty())
		}
		Expect(conversation.Catalog("ru").Failure).NotTo(Equal(conversation.Catalog("en").Failure))
	})
})
