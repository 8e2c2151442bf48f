package status_test

import (
	"fieldops/domain/status"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Catalog", func() {
	var catalog status.Catalog

	BeforeEach(func() {
		catalog = status.NewCatalog([]status.Estado{
			{ID: 1, Nombre: "Pendiente", Color: "#FFC107", Orden: 1},
			{ID: 2, Nombre: "En Progreso", Color: "#2196F3", Orden: 2},
			{ID: 3, Nombre: "En Revisión", Color: "#9C27B0", Orden: 3},
			{ID: 4, Nombre: "Finalizado", Color: "#4CAF50", Orden: 4},
			{ID: 5, Nombre: "Cancelado", Color: "#F44336", Orden: 5},
		})
	})

	Describe("KindOfName", func() {
		It("should match canonical names exactly", func() {
			Expect(status.KindOfName("Pendiente")).To(Equal(status.Pendiente))
			Expect(status.KindOfName("En Progreso")).To(Equal(status.EnProgreso))
			Expect(status.KindOfName("En Revisión")).To(Equal(status.EnRevision))
			Expect(status.KindOfName("Finalizado")).To(Equal(status.Finalizado))
		})

		It("should be case sensitive and map anything else to Unknown", func() {
			Expect(status.KindOfName("pendiente")).To(Equal(status.Unknown))
			Expect(status.KindOfName("En progreso")).To(Equal(status.Unknown))
			Expect(status.KindOfName("Cancelado")).To(Equal(status.Unknown))
			Expect(status.KindOfName("")).To(Equal(status.Unknown))
		})
	})

	Describe("Find", func() {
		It("should resolve every lifecycle kind against the fetched catalog", func() {
			s, found := catalog.Find(status.EnRevision)
			Expect(found).To(BeTrue())
			Expect(s.ID).To(Equal(int64(3)))
			Expect(s.Color).To(Equal("#9C27B0"))
		})

		It("should miss on an empty catalog", func() {
			empty := status.NewCatalog(nil)
			_, found := empty.Find(status.Pendiente)
			Expect(found).To(BeFalse())
		})

		It("should miss on a catalog whose names do not match", func() {
			renamed := status.NewCatalog([]status.Estado{{ID: 1, Nombre: "PENDIENTE"}})
			_, found := renamed.Find(status.Pendiente)
			Expect(found).To(BeFalse())
		})

		It("should never resolve Unknown", func() {
			_, found := catalog.Find(status.Unknown)
			Expect(found).To(BeFalse())
		})
	})
})
