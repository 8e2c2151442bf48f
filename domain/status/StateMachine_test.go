package status_test

import (
	"fieldops/domain/status"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("StateMachine", func() {
	var (
		stateMachine *status.StateMachine

		pendiente  = status.State{Name: "Pendiente", Kind: status.Pendiente}
		enProgreso = status.State{Name: "En Progreso", Kind: status.EnProgreso}
		enRevision = status.State{Name: "En Revisión", Kind: status.EnRevision}
		finalizado = status.State{Name: "Finalizado", Kind: status.Finalizado}
	)

	BeforeEach(func() {
		stateMachine = status.NewStateMachine(
			[]status.State{pendiente, enProgreso, enRevision, finalizado},
			[]status.Transition{
				{Name: "iniciar", From: pendiente, To: enProgreso},
				{Name: "solicitar_revision", From: enProgreso, To: enRevision},
				{Name: "aprobar", From: enRevision, To: finalizado},
				{Name: "rechazar", From: enRevision, To: enProgreso},
			})
	})

	Describe("AvailableTransitions", func() {
		It("should return the single forward edge for linear states", func() {
			Ω(stateMachine.AvailableTransitions(status.Pendiente)).Should(Equal([]status.Transition{
				{Name: "iniciar", From: pendiente, To: enProgreso},
			}))
			Ω(stateMachine.AvailableTransitions(status.EnProgreso)).Should(Equal([]status.Transition{
				{Name: "solicitar_revision", From: enProgreso, To: enRevision},
			}))
		})

		It("should return both approve and reject edges from the review state", func() {
			Ω(stateMachine.AvailableTransitions(status.EnRevision)).Should(Equal([]status.Transition{
				{Name: "aprobar", From: enRevision, To: finalizado},
				{Name: "rechazar", From: enRevision, To: enProgreso},
			}))
		})

		It("should return no transitions from the terminal state", func() {
			Ω(stateMachine.AvailableTransitions(status.Finalizado)).Should(Equal([]status.Transition{}))
		})

		It("should return no transitions from an unknown state", func() {
			Ω(stateMachine.AvailableTransitions(status.Unknown)).Should(Equal([]status.Transition{}))
		})
	})

	Describe("FindTransition", func() {
		It("should find a transition by name", func() {
			transition, found := stateMachine.FindTransition("rechazar")
			Expect(found).To(BeTrue())
			Expect(transition.To).To(Equal(enProgreso))
		})

		It("should report a missing transition", func() {
			_, found := stateMachine.FindTransition("cancelar")
			Expect(found).To(BeFalse())
		})
	})
})
