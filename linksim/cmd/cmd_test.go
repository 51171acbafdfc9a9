package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func run(args ...string) (string, error) {
	out := new(bytes.Buffer)

	rootCmd := NewRootCommand()
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

var _ = Describe("Commands", func() {
	It("should send over a dedicated link", func() {
		out, err := run("link", "--message", "ping")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Device 1 received nothing"))
		Expect(out).To(ContainSubstring("Device 2 received 1 frame(s): ping"))
	})

	It("should broadcast from the chosen star sender", func() {
		out, err := run("star", "--sender", "4", "-m", "hey")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Device 4 received nothing"))
		Expect(strings.Count(out, "received 1 frame(s): hey")).To(Equal(4))
	})

	It("should pick a star sender when none is given", func() {
		out, err := run("star", "--seed", "7")

		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Count(out, "received nothing")).To(Equal(1))
	})

	It("should reject an unknown star sender", func() {
		_, err := run("star", "--sender", "9")

		Expect(err).To(HaveOccurred())
	})

	It("should unicast through the switch once learned", func() {
		out, err := run("learn")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Address table of Switch 1:"))
		Expect(out).To(ContainSubstring("A -> "))
		Expect(out).To(ContainSubstring("B -> "))
	})

	It("should commit a CSMA/CD transmission", func() {
		out, err := run("switch", "--outcome", "perfect",
			"-s", "1", "-r", "3", "-m", "hi")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("CSMA/CD attempt committed: 0 collision(s)"))
		Expect(out).To(ContainSubstring("Device 3 received 1 frame(s): Device 3: hi"))
	})

	It("should run an ARQ session", func() {
		out, err := run("switch", "--outcome", "perfect", "-p", "sr",
			"--window", "4")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("sr session success"))
	})

	It("should report a failed session", func() {
		out, err := run("switch", "--outcome", "hostile", "-p", "saw",
			"--max-attempts", "3")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("saw session failed: 3 send(s)"))
	})

	It("should bound stop-and-wait when no limit is given", func() {
		out, err := run("switch", "--outcome", "hostile", "-p", "saw")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("saw session failed: 10 send(s)"))
	})

	It("should leave a timed stop-and-wait session unbounded", func() {
		out, err := run("switch", "--outcome", "hostile", "-p", "saw",
			"--timeout", "2")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("saw session cancelled: 4 send(s)"))
	})

	It("should reject unknown protocols and outcomes", func() {
		_, err := run("switch", "-p", "tcp")
		Expect(err).To(HaveOccurred())

		_, err = run("switch", "--outcome", "lucky")
		Expect(err).To(HaveOccurred())
	})

	It("should need --record for --output", func() {
		_, err := run("link", "--output", "somewhere")

		Expect(err).To(MatchError(ContainSubstring("--output needs --record")))
	})

	It("should write JSON trace lines", func() {
		file := filepath.Join(GinkgoT().TempDir(), "trace.jsonl")

		_, err := run("link", "--trace-out", file, "--trace-kinds", "broadcast")
		Expect(err).NotTo(HaveOccurred())

		data, err := os.ReadFile(file)
		Expect(err).NotTo(HaveOccurred())

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		Expect(lines).To(HaveLen(1))

		var e map[string]any
		Expect(json.Unmarshal([]byte(lines[0]), &e)).To(Succeed())
		Expect(e["kind"]).To(Equal("broadcast"))
		Expect(e["actor"]).To(Equal("Hub 1"))
	})

	It("should write CSV traces", func() {
		file := filepath.Join(GinkgoT().TempDir(), "trace.csv")

		_, err := run("link", "--trace-out", file, "--trace-format", "csv")
		Expect(err).NotTo(HaveOccurred())

		data, err := os.ReadFile(file)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(HavePrefix("Seq,Time,Kind,Actor,Payload\n"))
		Expect(string(data)).To(ContainSubstring("broadcast"))
	})

	It("should read back a recorded run", func() {
		base := filepath.Join(GinkgoT().TempDir(), "run")

		_, err := run("link", "--record", "--output", base)
		Expect(err).NotTo(HaveOccurred())

		out, err := run("trace", base, "--kind", "broadcast")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Hub 1 broadcast"))
		Expect(out).To(ContainSubstring("1 of 1 event(s)"))

		out, err = run("trace", base+".sqlite3", "--actors")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Hub 1"))
	})
})

var _ = Describe("Environment defaults", func() {
	It("should name variables after flags", func() {
		Expect(envName("max-attempts")).To(Equal("LINKSIM_MAX_ATTEMPTS"))
	})

	It("should set flags from the environment", func() {
		os.Setenv("LINKSIM_MESSAGE", "from env")
		DeferCleanup(os.Unsetenv, "LINKSIM_MESSAGE")

		rootCmd := NewRootCommand()
		Expect(applyEnvDefaults(rootCmd)).To(Succeed())

		out := new(bytes.Buffer)
		rootCmd.SetOut(out)
		rootCmd.SetErr(new(bytes.Buffer))
		rootCmd.SetArgs([]string{"link"})

		Expect(rootCmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("received 1 frame(s): from env"))
	})

	It("should report invalid values", func() {
		os.Setenv("LINKSIM_SEED", "many")
		DeferCleanup(os.Unsetenv, "LINKSIM_SEED")

		err := applyEnvDefaults(NewRootCommand())

		Expect(err).To(MatchError(ContainSubstring("LINKSIM_SEED")))
	})
})
