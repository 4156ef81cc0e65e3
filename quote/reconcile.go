package quote

import "pdc/money"

// InstallmentsTotal sums the payment plan.
func (s *Session) InstallmentsTotal() money.Money {
	var sum money.Money
	for _, inst := range s.installments {
		sum = sum.Add(inst.Amount)
	}
	return sum
}

// ClassificationsTotal sums the accounting allocation lines.
func (s *Session) ClassificationsTotal() money.Money {
	var sum money.Money
	for _, line := range s.classifications {
		sum = sum.Add(line.Amount)
	}
	return sum
}

// InstallmentDifference returns the approved supplier's grand total
// minus the installment sum. ok is false when no supplier is approved,
// in which case the difference is not applicable rather than zero.
func (s *Session) InstallmentDifference() (money.Money, bool) {
	sup := s.Approved()
	if sup == nil {
		return 0, false
	}
	return sup.GrandTotal.Sub(s.InstallmentsTotal()), true
}

// ClassificationDifference returns the approved supplier's grand total
// minus the classification sum, with the same not-applicable sentinel.
func (s *Session) ClassificationDifference() (money.Money, bool) {
	sup := s.Approved()
	if sup == nil {
		return 0, false
	}
	return sup.GrandTotal.Sub(s.ClassificationsTotal()), true
}
