package project

type Status string

const (
	StatusPlanning   Status = "planning"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusPaused     Status = "paused"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusCompleted, StatusPaused, StatusCancelled:
		return true
	}
	return false
}

// ManualHold indica status definidos manualmente que o cálculo não sobrescreve.
func (s Status) ManualHold() bool {
	return s == StatusPaused || s == StatusCancelled
}

// Derive calcula o status do projeto a partir das sessões concluídas e
// planejadas. ok é false quando não há sessões planejadas.
func Derive(completed, planned int64) (status Status, ok bool) {
	if planned <= 0 {
		return "", false
	}

	switch {
	case completed <= 0:
		return StatusPlanning, true
	case completed < planned:
		return StatusInProgress, true
	default:
		return StatusCompleted, true
	}
}
