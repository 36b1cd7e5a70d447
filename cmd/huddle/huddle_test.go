package huddlecmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	huddlecmder "github.com/papercomputeco/huddle/cmd/huddle"
	"github.com/papercomputeco/huddle/pkg/utils"
)

var _ = Describe("NewHuddleCmd", func() {
	It("registers every subcommand", func() {
		cmd := huddlecmder.NewHuddleCmd()
		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("chat", "ask", "serve", "config", "version"))
	})

	It("exposes the global flags", func() {
		cmd := huddlecmder.NewHuddleCmd()
		Expect(cmd.PersistentFlags().Lookup("debug")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})

	It("prints the version", func() {
		var out bytes.Buffer
		cmd := huddlecmder.NewHuddleCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"version"})

		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Version: " + utils.Version))
		Expect(out.String()).To(ContainSubstring(utils.UserAgent()))
	})
})
