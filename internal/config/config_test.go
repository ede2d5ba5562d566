package config_test

import (
	"testing"
	"time"

	"github.com/naka-gawa/github-snapshot/internal/config"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

func fakeEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

var _ = Describe("LoadWithEnv", func() {
	It("uses defaults when nothing is set", func() {
		cfg, err := config.LoadWithEnv(fakeEnv(nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Authenticated()).To(BeFalse())
		Expect(cfg.TokenSource).To(BeEmpty())
		Expect(cfg.APIURL).To(Equal(config.DefaultAPIURL))
		Expect(cfg.GraphQLURL).To(Equal(config.DefaultGraphQLURL))
		Expect(cfg.Timeout).To(Equal(config.DefaultTimeout))
		Expect(cfg.SecondaryWait).To(BeZero())
		Expect(cfg.ReadmeLimit).To(Equal(3000))
		Expect(cfg.ExcerptLimit).To(Equal(1200))
		Expect(cfg.Contributions).To(BeTrue())
		Expect(cfg.Addr).To(Equal(":8080"))
	})

	It("picks the first credential source in priority order", func() {
		cfg, err := config.LoadWithEnv(fakeEnv(map[string]string{
			"GH_TOKEN":                 "from-gh",
			"NEXT_PUBLIC_GITHUB_TOKEN": "from-next",
		}))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Token).To(Equal("from-next"))
		Expect(cfg.TokenSource).To(Equal("NEXT_PUBLIC_GITHUB_TOKEN"))

		cfg, err = config.LoadWithEnv(fakeEnv(map[string]string{
			"GITHUB_TOKEN": "from-github",
			"GH_TOKEN":     "from-gh",
		}))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Token).To(Equal("from-github"))
		Expect(cfg.Authenticated()).To(BeTrue())
	})

	It("skips blank credential values", func() {
		cfg, err := config.LoadWithEnv(fakeEnv(map[string]string{
			"GITHUB_TOKEN": "   ",
			"GH_TOKEN":     "real",
		}))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Token).To(Equal("real"))
		Expect(cfg.TokenSource).To(Equal("GH_TOKEN"))
	})

	It("parses overrides", func() {
		cfg, err := config.LoadWithEnv(fakeEnv(map[string]string{
			"GITHUB_API_URL":        "https://ghe.example.com/api/v3/",
			"GHSNAP_HTTP_TIMEOUT":   "5s",
			"GHSNAP_SECONDARY_WAIT": "1m",
			"GHSNAP_README_LIMIT":   "4000",
			"GHSNAP_EXCERPT_LIMIT":  "1500",
			"GHSNAP_CONTRIBUTIONS":  "false",
		}))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.APIURL).To(Equal("https://ghe.example.com/api/v3/"))
		Expect(cfg.Timeout).To(Equal(5 * time.Second))
		Expect(cfg.SecondaryWait).To(Equal(time.Minute))
		Expect(cfg.ReadmeLimit).To(Equal(4000))
		Expect(cfg.ExcerptLimit).To(Equal(1500))
		Expect(cfg.Contributions).To(BeFalse())
	})

	It("rejects malformed values", func() {
		_, err := config.LoadWithEnv(fakeEnv(map[string]string{"GHSNAP_README_LIMIT": "lots"}))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("GHSNAP_README_LIMIT"))

		_, err = config.LoadWithEnv(fakeEnv(map[string]string{"GHSNAP_HTTP_TIMEOUT": "soon"}))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("GHSNAP_HTTP_TIMEOUT"))

		_, err = config.LoadWithEnv(fakeEnv(map[string]string{"GHSNAP_CONTRIBUTIONS": "maybe"}))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Validate", func() {
	valid := func() config.Config {
		return config.Config{
			APIURL:       config.DefaultAPIURL,
			Timeout:      time.Second,
			ReadmeLimit:  3000,
			ExcerptLimit: 1200,
		}
	}

	It("accepts a complete config", func() {
		Expect(config.Validate(valid())).To(Succeed())
	})

	It("rejects an excerpt larger than the stored README", func() {
		cfg := valid()
		cfg.ExcerptLimit = 3001
		err := config.Validate(cfg)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("GHSNAP_EXCERPT_LIMIT"))
	})

	It("rejects an API URL without a trailing slash", func() {
		cfg := valid()
		cfg.APIURL = "https://ghe.example.com/api/v3"
		Expect(config.Validate(cfg)).NotTo(Succeed())
	})

	It("rejects a non-positive timeout", func() {
		cfg := valid()
		cfg.Timeout = 0
		Expect(config.Validate(cfg)).NotTo(Succeed())
	})
})
