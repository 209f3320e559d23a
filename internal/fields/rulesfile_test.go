package fields

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LoadRules", func() {
	var (
		content string
		rules   []Rule
		err     error
	)

	JustBeforeEach(func() {
		path := filepath.Join(GinkgoT().TempDir(), "rules.json")
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		rules, err = LoadRules(path)
	})

	When("the file is valid", func() {
		BeforeEach(func() {
			content = `{"rules":[{"field":"invoice_number","patterns":["(?i)ref\\s*no\\s*:?\\s*(\\S+)"]}]}`
		})

		It("compiles the rule table", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(rules).To(HaveLen(1))
			Expect(rules[0].Field).To(Equal(FieldInvoiceNumber))
		})

		It("produces rules the recognizer can apply", func() {
			got := NewRecognizer(rules, nil).Recognize("Ref No: X-77")
			Expect(got.InvoiceNumber).To(Equal("X-77"))
		})
	})

	When("the file names an unknown field", func() {
		BeforeEach(func() {
			content = `{"rules":[{"field":"po_number","patterns":["(x)"]}]}`
		})

		It("fails schema validation", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("schema"))
		})
	})

	When("a pattern has no capture group", func() {
		BeforeEach(func() {
			content = `{"rules":[{"field":"vendor","patterns":["vendor"]}]}`
		})

		It("is rejected", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("capture group"))
		})
	})

	When("the rules list is empty", func() {
		BeforeEach(func() {
			content = `{"rules":[]}`
		})

		It("fails schema validation", func() {
			Expect(err).To(HaveOccurred())
		})
	})
})
