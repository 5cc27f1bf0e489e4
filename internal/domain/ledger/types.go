package ledger

type Type string

const (
	TypeRevenue  Type = "revenue"
	TypeExpense  Type = "expense"
	TypeTransfer Type = "transfer"
)

// DefaultServiceCategory é a categoria dos lançamentos gerados por agendamento.
const DefaultServiceCategory = "services"
