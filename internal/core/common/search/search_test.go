package search_test

import (
	"testing"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/common/search"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSearch(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Search Suite")
}

var _ = Describe("Search helpers", func() {
	It("needs at least three characters", func() {
		Expect(search.Accepts("ab")).To(BeFalse())
		Expect(search.Accepts("abc")).To(BeTrue())
		Expect(search.Accepts("çay")).To(BeTrue())
	})

	It("escapes LIKE wildcards", func() {
		Expect(search.LikePattern("50%_off")).To(Equal(`%50\%\_off%`))
		Expect(search.LikePattern(`a\b`)).To(Equal(`%a\\b%`))
	})

	It("filters case-sensitively", func() {
		names := []string{"Milk", "milkshake", "Buttermilk", "Oat Milk"}
		out := search.Filter(names, "Milk", func(s string) string { return s })
		Expect(out).To(Equal([]string{"Milk", "Oat Milk"}))
	})
})
