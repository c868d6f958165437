package product_test

import (
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/product"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Product", func() {
	today := time.Date(2025, 3, 10, 15, 30, 0, 0, time.Local)
	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	DescribeTable("IsLowStock",
		func(current, min int, expected bool) {
			p := &product.Product{CurrentStock: current, MinStockLevel: min}
			Expect(p.IsLowStock()).To(Equal(expected))
		},
		Entry("below the minimum", 5, 10, true),
		Entry("at the minimum", 10, 10, true),
		Entry("above the minimum", 11, 10, false),
		Entry("empty with zero minimum", 0, 0, true),
	)

	Describe("IsExpiringSoon", func() {
		It("should include the last day of the window", func() {
			p := &product.Product{IsPerishable: true, ExpiryDate: date(2025, 4, 9)}
			Expect(p.IsExpiringSoon(today, 30)).To(BeTrue())
		})

		It("should exclude the day after the window", func() {
			p := &product.Product{IsPerishable: true, ExpiryDate: date(2025, 4, 10)}
			Expect(p.IsExpiringSoon(today, 30)).To(BeFalse())
		})

		It("should include products that already expired", func() {
			p := &product.Product{IsPerishable: true, ExpiryDate: date(2025, 1, 1)}
			Expect(p.IsExpiringSoon(today, 30)).To(BeTrue())
		})

		It("should ignore non-perishable products whatever the date", func() {
			p := &product.Product{IsPerishable: false, ExpiryDate: date(2025, 3, 11)}
			Expect(p.IsExpiringSoon(today, 30)).To(BeFalse())
		})

		It("should ignore perishable products without a date", func() {
			p := &product.Product{IsPerishable: true}
			Expect(p.IsExpiringSoon(today, 30)).To(BeFalse())
		})
	})

	Describe("DaysUntilExpiry", func() {
		It("should count calendar days", func() {
			p := &product.Product{IsPerishable: true, ExpiryDate: date(2025, 3, 15)}
			Expect(p.DaysUntilExpiry(today)).To(Equal(5))
		})

		It("should go negative after expiry", func() {
			p := &product.Product{IsPerishable: true, ExpiryDate: date(2025, 3, 8)}
			Expect(p.DaysUntilExpiry(today)).To(Equal(-2))
		})
	})

	Describe("ParseDate", func() {
		It("should treat an empty string as unset", func() {
			d, err := product.ParseDate("")
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(BeNil())
		})

		It("should reject other layouts", func() {
			_, err := product.ParseDate("10/03/2025")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ToResponse", func() {
		It("should render prices with two decimals and the expiry fields", func() {
			p := product.NewProduct("Milk", "MLK-1", 1)
			p.IsPerishable = true
			p.ExpiryDate = date(2025, 3, 20)
			resp := p.ToResponse(today, 30)

			Expect(resp.CostPrice).To(Equal("0.00"))
			Expect(*resp.ExpiryDate).To(Equal("2025-03-20"))
			Expect(*resp.DaysUntilExpiry).To(Equal(10))
			Expect(resp.IsExpiringSoon).To(BeTrue())
			Expect(resp.MinStockLevel).To(Equal(product.DefaultMinStockLevel))
			Expect(resp.Image).To(Equal(product.DefaultImage))
			Expect(resp.Suppliers).NotTo(BeNil())
		})
	})
})
