package mapping

import (
	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/cliquepay/cliquepay_backend/internal/models"
)

// ToModelPayment converts a domain Payment into its row and allocation lines.
func ToModelPayment(d domain.Payment) (models.Payment, []models.PaymentAllocation) {
	p := models.Payment{
		PaymentID:      d.PaymentID,
		PayerID:        d.PayerID,
		TargetKind:     d.Target.Kind(),
		TargetID:       d.Target.ID(),
		Amount:         d.Amount,
		AmountApplied:  d.AmountApplied,
		AmountLeftover: d.AmountLeftover,
		Description:    d.Description,
		CreatedAt:      d.CreatedAt,
	}
	lines := make([]models.PaymentAllocation, len(d.Allocations))
	for i, a := range d.Allocations {
		lines[i] = models.PaymentAllocation{
			PaymentID:       d.PaymentID,
			SplitID:         a.SplitID,
			ExpenseID:       a.ExpenseID,
			AmountApplied:   a.AmountApplied,
			RemainingAmount: a.RemainingAmount,
			IsPaid:          a.IsPaid,
		}
	}
	return p, lines
}

// ToDomainPayment rebuilds a domain Payment from its row and allocation lines.
func ToDomainPayment(m models.Payment, lines []models.PaymentAllocation) domain.Payment {
	allocs := make([]domain.SplitAllocation, len(lines))
	for i, l := range lines {
		allocs[i] = domain.SplitAllocation{
			SplitID:         l.SplitID,
			ExpenseID:       l.ExpenseID,
			AmountApplied:   l.AmountApplied,
			RemainingAmount: l.RemainingAmount,
			IsPaid:          l.IsPaid,
		}
	}
	return domain.Payment{
		PaymentID:      m.PaymentID,
		PayerID:        m.PayerID,
		Target:         domain.TargetFromKind(m.TargetKind, m.TargetID),
		Amount:         m.Amount,
		AmountApplied:  m.AmountApplied,
		AmountLeftover: m.AmountLeftover,
		Description:    m.Description,
		Allocations:    allocs,
		CreatedAt:      m.CreatedAt,
	}
}
