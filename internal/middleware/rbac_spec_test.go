package middleware

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/menezmethod/helpdesk/internal/session"
)

var _ = Describe("RequireRoles", func() {
	var (
		called  bool
		handler http.Handler
	)

	BeforeEach(func() {
		called = false
		handler = RequireRoles(discardLogger(), "comercial", "administrador")(recordingHandler(&called))
	})

	It("rejects a role outside the set with a plain-text 403", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestAs("/comercial", &session.Identity{ID: "3", Role: "sistemas"}))

		Expect(called).To(BeFalse())
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/plain"))
	})

	It("accepts a role that differs only in case", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestAs("/comercial", &session.Identity{ID: "4", Role: "Comercial"}))

		Expect(called).To(BeTrue())
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("rejects an anonymous request", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestAs("/comercial", nil))

		Expect(called).To(BeFalse())
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("folds configured roles too", func() {
		h := RequireRoles(discardLogger(), " ADMINISTRADOR ")(recordingHandler(&called))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestAs("/admin", &session.Identity{ID: "1", Role: "administrador"}))
		Expect(called).To(BeTrue())
	})

	It("panics when no role is configured", func() {
		Expect(func() { RequireRoles(discardLogger(), " ", "") }).To(Panic())
	})
})
