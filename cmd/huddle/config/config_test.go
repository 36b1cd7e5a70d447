package configcmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	configcmder "github.com/papercomputeco/huddle/cmd/huddle/config"
)

var _ = Describe("NewConfigCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := configcmder.NewConfigCmd()
		Expect(cmd.Use).To(Equal("config"))
	})

	It("has set, get, and list subcommands", func() {
		cmd := configcmder.NewConfigCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("set", "get", "list"))
	})
})

var _ = Describe("Config command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		cmd := configcmder.NewConfigCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return out.String(), err
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "huddle-config-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		// Create a local .huddle dir so the manager picks it up
		err = os.MkdirAll(filepath.Join(tmpDir, ".huddle"), 0o755)
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	Describe("set subcommand", func() {
		It("sets a config value successfully", func() {
			_, err := run("set", "assistant.model", "deepseek-reasoner")
			Expect(err).NotTo(HaveOccurred())

			data, err := os.ReadFile(filepath.Join(tmpDir, ".huddle", "config.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("deepseek-reasoner"))
		})

		It("rejects unknown keys", func() {
			_, err := run("set", "invalid_key", "value")
			Expect(err).To(HaveOccurred())
		})

		It("rejects values outside the allowed range", func() {
			_, err := run("set", "assistant.temperature", "5")
			Expect(err).To(HaveOccurred())

			_, statErr := os.Stat(filepath.Join(tmpDir, ".huddle", "config.toml"))
			Expect(os.IsNotExist(statErr)).To(BeTrue())
		})

		It("requires exactly two arguments", func() {
			_, err := run("set", "assistant.model")
			Expect(err).To(HaveOccurred())
		})

		It("masks the api key in its confirmation", func() {
			out, err := run("set", "assistant.api_key", "sk-secret-abcd")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("abcd"))
			Expect(out).NotTo(ContainSubstring("sk-secret"))
		})
	})

	Describe("get subcommand", func() {
		It("prints a previously set value", func() {
			_, err := run("set", "chat.locale", "ru")
			Expect(err).NotTo(HaveOccurred())

			out, err := run("get", "chat.locale")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("chat.locale"))
			Expect(out).To(ContainSubstring("ru"))
		})

		It("reports unset optional keys", func() {
			out, err := run("get", "assistant.temperature")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("<not set>"))
		})

		It("rejects unknown keys", func() {
			_, err := run("get", "nope")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Valid keys"))
		})
	})

	Describe("list subcommand", func() {
		It("lists every key with defaults applied", func() {
			out, err := run("list")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("assistant.endpoint"))
			Expect(out).To(ContainSubstring("server.listen"))
			Expect(out).To(ContainSubstring(":8787"))
			Expect(out).To(ContainSubstring("chat.copy_reset"))
		})

		It("never prints the raw api key", func() {
			_, err := run("set", "assistant.api_key", "sk-very-secret-9876")
			Expect(err).NotTo(HaveOccurred())

			out, err := run("list")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("9876"))
			Expect(out).NotTo(ContainSubstring("sk-very-secret"))
		})
	})
})
