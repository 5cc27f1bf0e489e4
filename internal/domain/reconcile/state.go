package reconcile

import "github.com/google/uuid"

// State de uma tentativa de confirmação.
type State string

const (
	StateRequested             State = "requested"
	StateOptimisticallyApplied State = "optimistically_applied"
	StateReconciling           State = "reconciling"
	StateCommitted             State = "committed"
	StateRolledBack            State = "rolled_back"
	StateForbidden             State = "forbidden"
)

func (s State) Terminal() bool {
	return s == StateCommitted || s == StateRolledBack || s == StateForbidden
}

// Result é o que a confirmação devolve para a tela. SessionID e TransactionID
// vêm preenchidos sempre que a etapa gravou, inclusive em rolled_back e forbidden.
type Result struct {
	State       State  `json:"state"`
	PriorStatus string `json:"prior_status"`
	Status      string `json:"status"`

	SessionID     *uuid.UUID `json:"session_id,omitempty"`
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
	LedgerSkipped bool       `json:"ledger_skipped"`

	ProjectStatus string `json:"project_status,omitempty"`
	ProjectErr    error  `json:"-"`
}
