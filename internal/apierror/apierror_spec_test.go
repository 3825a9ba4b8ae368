package apierror

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Error", func() {
	It("implements error interface with message", func() {
		e := InvalidRequest("bad input")
		Expect(e.Error()).To(Equal("bad input"))
	})
})

var _ = Describe("Write", func() {
	It("writes a plain-text body with the status", func() {
		rec := httptest.NewRecorder()
		Write(rec, NotFound())

		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(rec.Header().Get("Content-Type")).To(Equal("text/plain; charset=utf-8"))
		Expect(rec.Header().Get("X-Content-Type-Options")).To(Equal("nosniff"))
		Expect(rec.Body.String()).To(Equal("404 Not Found\n"))
	})
})

var _ = DescribeTable("constructors",
	func(e *Error, status int, code string) {
		Expect(e.Status).To(Equal(status))
		Expect(e.Code).To(Equal(code))
		Expect(e.Message).NotTo(BeEmpty())
	},
	Entry("NotFound", NotFound(), http.StatusNotFound, CodeNotFound),
	Entry("Forbidden", Forbidden(), http.StatusForbidden, CodeForbidden),
	Entry("TooManyRequests", TooManyRequests(), http.StatusTooManyRequests, CodeRateLimit),
	Entry("InvalidRequest", InvalidRequest("email requerido"), http.StatusBadRequest, CodeInvalidRequest),
	Entry("Internal", Internal("boom"), http.StatusInternalServerError, CodeInternal),
)
