package middleware

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/menezmethod/helpdesk/internal/session"
)

var _ = Describe("Registry", func() {
	var reg *Registry

	BeforeEach(func() {
		reg = NewRegistry("/ingresar", discardLogger())
	})

	It("resolves auth to a redirect to the configured login path", func() {
		mw, err := reg.ResolveString("auth")
		Expect(err).NotTo(HaveOccurred())

		called := false
		rec := httptest.NewRecorder()
		mw(recordingHandler(&called)).ServeHTTP(rec, requestAs("/admin", nil))
		Expect(called).To(BeFalse())
		Expect(rec.Header().Get("Location")).To(Equal("/ingresar"))
	})

	It("resolves a role spec to a role check", func() {
		mw, err := reg.ResolveString("role:comercial, administrador")
		Expect(err).NotTo(HaveOccurred())

		called := false
		rec := httptest.NewRecorder()
		mw(recordingHandler(&called)).ServeHTTP(rec, requestAs("/", &session.Identity{ID: "1", Role: "Administrador"}))
		Expect(called).To(BeTrue())

		called = false
		rec = httptest.NewRecorder()
		mw(recordingHandler(&called)).ServeHTTP(rec, requestAs("/", &session.Identity{ID: "2", Role: "sistemas"}))
		Expect(called).To(BeFalse())
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("fails for an unknown name", func() {
		_, err := reg.ResolveString("csrf")
		Expect(err).To(MatchError(ErrUnknownMiddleware))
	})

	It("fails for a typed role spec without roles", func() {
		_, err := reg.Resolve(Spec{Kind: KindRoleIn})
		Expect(err).To(MatchError(ErrInvalidSpec))
	})

	It("fails for a typed role spec whose roles are all blank", func() {
		var mw Middleware
		var err error
		Expect(func() { mw, err = reg.Resolve(RoleIn(" ", "")) }).NotTo(Panic())
		Expect(err).To(MatchError(ErrInvalidSpec))
		Expect(mw).To(BeNil())
	})

	It("ignores blank entries next to real roles", func() {
		mw, err := reg.Resolve(Spec{Kind: KindRoleIn, Roles: []string{" ", "comercial"}})
		Expect(err).NotTo(HaveOccurred())

		called := false
		mw(recordingHandler(&called)).ServeHTTP(httptest.NewRecorder(), requestAs("/", &session.Identity{ID: "1", Role: "comercial"}))
		Expect(called).To(BeTrue())
	})

	It("fails for a zero spec", func() {
		_, err := reg.Resolve(Spec{})
		Expect(err).To(MatchError(ErrUnknownMiddleware))
	})

	It("resolves names added at startup", func() {
		tag := func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Tag", "seen")
				next.ServeHTTP(w, r)
			})
		}
		reg.Add("tag", tag)

		mw, err := reg.ResolveString("tag")
		Expect(err).NotTo(HaveOccurred())
		called := false
		rec := httptest.NewRecorder()
		mw(recordingHandler(&called)).ServeHTTP(rec, requestAs("/", nil))
		Expect(rec.Header().Get("X-Tag")).To(Equal("seen"))
		Expect(called).To(BeTrue())
	})

	It("refuses to shadow built-ins", func() {
		noop := func(next http.Handler) http.Handler { return next }
		Expect(func() { reg.Add("auth", noop) }).To(Panic())
		Expect(func() { reg.Add("role", noop) }).To(Panic())
		Expect(func() { reg.Add("", noop) }).To(Panic())
	})

	It("is safe to resolve repeatedly", func() {
		a, err := reg.ResolveString("auth")
		Expect(err).NotTo(HaveOccurred())
		b, err := reg.ResolveString("auth")
		Expect(err).NotTo(HaveOccurred())

		for _, mw := range []Middleware{a, b} {
			rec := httptest.NewRecorder()
			called := false
			mw(recordingHandler(&called)).ServeHTTP(rec, requestAs("/", nil))
			Expect(rec.Code).To(Equal(http.StatusFound))
		}
	})
})
