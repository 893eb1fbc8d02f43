package proxylive

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	Describe("Prepare()", func() {
		It("fills defaults", func() {
			c := &Config{}
			Expect(c.Prepare()).To(Succeed())

			Expect(c.Path).To(Equal("config.js"))
			Expect(c.Endpoint).To(Equal("https://ipinfo.io/ip"))
			Expect(c.Timeout).To(Equal(8))
			Expect(c.BackupSuffix).To(Equal(".backup"))
			Expect(c.Verify).To(Equal(VerifyOff))
			Expect(c.BackupPath()).To(Equal("config.js.backup"))
			Expect(c.timeout()).To(Equal(8 * time.Second))
		})

		It("keeps values that are set", func() {
			c := &Config{Path: "cfg/app.js", Timeout: 3, Verify: VerifyStrict}
			Expect(c.Prepare()).To(Succeed())
			Expect(c.Path).To(Equal("cfg/app.js"))
			Expect(c.Timeout).To(Equal(3))
			Expect(c.Verify).To(Equal(VerifyStrict))
		})

		It("rejects an unknown verify mode", func() {
			c := &Config{Verify: "sometimes"}
			Expect(c.Prepare()).To(MatchError(ErrConfig))
		})

		It("rejects a negative timeout", func() {
			c := &Config{Timeout: -1}
			Expect(c.Prepare()).To(MatchError(ErrConfig))
		})
	})

	Describe("validate()", func() {
		It("reports missing required fields", func() {
			err := validate(&Config{Endpoint: "x", BackupSuffix: ".b", Verify: VerifyOff})
			Expect(err).To(MatchError(ErrConfig))
			Expect(err.Error()).To(ContainSubstring(`"Path"`))
		})
	})
})

var _ = Describe("Settings", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "proxylive-settings")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
	})

	Describe("LoadFile()", func() {
		It("overlays YAML values", func() {
			path := filepath.Join(dir, "proxylive.yaml")
			Expect(os.WriteFile(path, []byte(
				"path: web/config.js\n"+
					"timeout: 4\n"+
					"verify: warn\n"+
					"user_agents:\n  - agent-a\n  - agent-b\n"+
					"dry_run: true\n"), 0o644)).To(Succeed())

			c := &Config{Endpoint: "http://echo.local"}
			Expect(LoadFile(path, c)).To(Succeed())
			Expect(c.Path).To(Equal("web/config.js"))
			Expect(c.Endpoint).To(Equal("http://echo.local"))
			Expect(c.Timeout).To(Equal(4))
			Expect(c.Verify).To(Equal(VerifyWarn))
			Expect(c.UserAgents).To(Equal([]string{"agent-a", "agent-b"}))
			Expect(c.DryRun).To(BeTrue())
		})

		It("rejects invalid YAML", func() {
			path := filepath.Join(dir, "broken.yaml")
			Expect(os.WriteFile(path, []byte("timeout: [\n"), 0o644)).To(Succeed())
			Expect(LoadFile(path, &Config{})).To(MatchError(ErrConfig))
		})

		It("reports a missing file", func() {
			Expect(LoadFile(filepath.Join(dir, "missing.yaml"), &Config{})).To(MatchError(os.ErrNotExist))
		})
	})

	Describe("FromEnv()", func() {
		lookup := func(env map[string]string) func(string) (string, bool) {
			return func(k string) (string, bool) {
				v, ok := env[k]
				return v, ok
			}
		}

		It("overlays PROXYLIVE_* variables", func() {
			c := &Config{Path: "config.js", Timeout: 8}
			Expect(FromEnv(c, lookup(map[string]string{
				EnvPath:     "other.js",
				EnvEndpoint: "http://echo.local",
				EnvTimeout:  " 2 ",
				EnvVerify:   "STRICT",
				EnvListen:   "127.0.0.1:8080",
			}))).To(Succeed())

			Expect(c.Path).To(Equal("other.js"))
			Expect(c.Endpoint).To(Equal("http://echo.local"))
			Expect(c.Timeout).To(Equal(2))
			Expect(c.Verify).To(Equal(VerifyStrict))
			Expect(c.Listen).To(Equal("127.0.0.1:8080"))
		})

		It("ignores empty values", func() {
			c := &Config{Path: "config.js"}
			Expect(FromEnv(c, lookup(map[string]string{EnvPath: ""}))).To(Succeed())
			Expect(c.Path).To(Equal("config.js"))
		})

		It("rejects a timeout that is not a number", func() {
			err := FromEnv(&Config{}, lookup(map[string]string{EnvTimeout: "soon"}))
			Expect(err).To(MatchError(ErrConfig))
		})
	})

	Describe("LoadEnv()", func() {
		It("loads variables from a dotenv file", func() {
			path := filepath.Join(dir, ".env")
			Expect(os.WriteFile(path, []byte("PROXYLIVE_TEST_ENDPOINT=http://echo.local\n"), 0o644)).To(Succeed())
			DeferCleanup(os.Unsetenv, "PROXYLIVE_TEST_ENDPOINT")

			Expect(LoadEnv(path)).To(Succeed())
			Expect(os.Getenv("PROXYLIVE_TEST_ENDPOINT")).To(Equal("http://echo.local"))
		})

		It("ignores missing files", func() {
			Expect(LoadEnv(filepath.Join(dir, "missing.env"))).To(Succeed())
		})
	})
})
