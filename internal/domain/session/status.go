package session

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentPaid || s == PaymentCancelled
}

// Counts indica se a sessão entra na contagem de sessões concluídas do projeto.
func (s PaymentStatus) Counts() bool {
	return s != PaymentCancelled
}
