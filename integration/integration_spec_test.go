package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var baseURL string
var stopApp func()

// client never follows redirects so the specs can assert on them.
var client = &http.Client{
	CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
}

var _ = BeforeSuite(func() {
	if u := os.Getenv("INTEGRATION_BASE_URL"); u != "" {
		baseURL = strings.TrimSuffix(u, "/")
		Expect(IsRunning(baseURL)).To(BeTrue(), "no server answering at %s", baseURL)
		return
	}
	if os.Getenv("HELPDESK_DATABASE_DSN") == "" {
		Skip("set HELPDESK_DATABASE_DSN or INTEGRATION_BASE_URL to run integration tests")
	}
	var err error
	baseURL, stopApp, err = StartApp()
	Expect(err).NotTo(HaveOccurred())
	Expect(baseURL).NotTo(BeEmpty())
})

var _ = AfterSuite(func() {
	if stopApp != nil {
		stopApp()
	}
})

var _ = Describe("Integration", func() {
	Describe("Public endpoints", func() {
		It("GET /health returns 200 and status ok", func() {
			resp, err := client.Get(baseURL + "/health")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			var body map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).NotTo(HaveOccurred())
			Expect(body["status"]).To(Equal("ok"))
			Expect(body).To(HaveKey("version"))
		})

		It("GET /version returns 200 and version in JSON", func() {
			resp, err := client.Get(baseURL + "/version")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("application/json"))
		})

		It("GET /health/ready reports the session store and database", func() {
			resp, err := client.Get(baseURL + "/health/ready")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})

		It("GET /metrics returns Prometheus output", func() {
			resp, err := client.Get(baseURL + "/metrics")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(ContainSubstring("helpdesk_http_requests_total"))
		})

		It("GET /login serves the form", func() {
			resp, err := client.Get(baseURL + "/login")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("text/html"))
		})
	})

	Describe("Routing", func() {
		It("answers unknown paths with a plain-text 404", func() {
			resp, err := client.Get(baseURL + "/no-such-page")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("text/plain"))
		})

		It("redirects anonymous /admin to the login page", func() {
			resp, err := client.Get(baseURL + "/admin")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusFound))
			Expect(resp.Header.Get("Location")).To(Equal("/login"))
		})

		It("sends bad credentials back to the form", func() {
			form := url.Values{"email": {"nadie@coop.test"}, "password": {"x"}}
			resp, err := client.PostForm(baseURL+"/login", form)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusFound))
			Expect(resp.Header.Get("Location")).To(Equal("/login?error=1"))
		})
	})
})
