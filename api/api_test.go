package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/api"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "OpenAPI Suite")
}

var _ = Describe("OpenAPI document", func() {
	It("loads and validates", func() {
		doc, err := api.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Info.Title).To(Equal("Stocker API"))
	})

	It("lists operations under the /api/v1 prefix", func() {
		doc, err := api.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())

		routes := api.Routes(doc)
		Expect(routes).To(ContainElements(
			"POST /api/v1/accounts/login",
			"GET /api/v1/products/{id}",
			"DELETE /api/v1/products/delete/{id}",
			"GET /api/v1/reports/inventory.pdf",
			"GET /api/v1/ws/alerts",
		))
	})

	It("serves the raw YAML", func() {
		rec := httptest.NewRecorder()
		api.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yml", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/yaml"))
		Expect(rec.Body.String()).To(HavePrefix("openapi: 3.0.3"))
	})
})
