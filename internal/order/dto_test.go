package order_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/order"
)

var _ = Describe("PlaceOrderDTO", func() {
	DescribeTable("quantity bounds",
		func(quantity int, valid bool) {
			err := order.PlaceOrderDTO{ProductID: "SKU-1", Quantity: quantity}.Validate()
			if valid {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
		},
		Entry("zero", 0, false),
		Entry("one", 1, true),
		Entry("largest integer column value", math.MaxInt32, true),
		Entry("three billion", 3_000_000_000, false),
	)

	It("parses an oversized quantity and leaves the bound to Validate", func() {
		dto, err := order.ParsePlaceOrder([]byte(`{"product_id":"SKU-1","quantity":3000000000}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(internal.KindOf(dto.Validate())).To(Equal(internal.ErrorTypeValidation))
	})
})

var _ = Describe("ParsePlaceOrder", func() {
	DescribeTable("field spellings",
		func(body string, productID string, quantity int) {
			dto, err := order.ParsePlaceOrder([]byte(body))
			Expect(err).NotTo(HaveOccurred())
			Expect(dto.ProductID).To(Equal(productID))
			Expect(dto.Quantity).To(Equal(quantity))
			Expect(string(dto.Payload)).To(Equal(body))
		},
		Entry("snake case", `{"product_id":"SKU-1","quantity":3}`, "SKU-1", 3),
		Entry("camel case", `{"productId":"SKU-2","qty":5,"color":"navy"}`, "SKU-2", 5),
		Entry("snake case wins", `{"product_id":"A","productId":"B","quantity":1,"qty":9}`, "A", 1),
	)

	It("rejects bytes that are not UTF-8", func() {
		_, err := order.ParsePlaceOrder([]byte("{\"product_id\":\"SKU-\xff\",\"quantity\":1}"))
		Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
	})

	It("rejects malformed JSON", func() {
		_, err := order.ParsePlaceOrder([]byte(`{"product_id":`))
		Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
	})
})
