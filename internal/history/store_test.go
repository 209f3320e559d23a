package history

import (
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestHistory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "History Suite")
}

var _ = Describe("Store", func() {
	var store *Store

	BeforeEach(func() {
		var err error
		store, err = Open(filepath.Join(GinkgoT().TempDir(), "history.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	It("round-trips a run record", func() {
		rec := RunRecord{
			RunID:      "11111111-2222-3333-4444-555555555555",
			StartedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2026, 3, 1, 9, 0, 7, 0, time.UTC),
			InputDir:   "/in",
			OutputPath: "/out/extracted_data.xlsx",
			Documents:  5,
			Succeeded:  3,
			Partial:    1,
			Failed:     1,
			LineItems:  42,
		}
		Expect(store.Record(rec)).To(Succeed())

		runs, err := store.ListRuns()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(Equal([]RunRecord{rec}))
	})

	It("lists runs in chronological order regardless of insert order", func() {
		later := RunRecord{RunID: "b", StartedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)}
		earlier := RunRecord{RunID: "a", StartedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
		Expect(store.Record(later)).To(Succeed())
		Expect(store.Record(earlier)).To(Succeed())

		runs, err := store.ListRuns()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(2))
		Expect(runs[0].RunID).To(Equal("a"))
		Expect(runs[1].RunID).To(Equal("b"))
	})

	It("starts empty", func() {
		runs, err := store.ListRuns()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(BeEmpty())
	})
})
