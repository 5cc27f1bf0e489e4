package reconcile

import (
	"errors"
	"fmt"
)

// Tipos de erro. NotFound costuma ser tratado localmente (insert no lugar do
// update); os demais sempre chegam ao chamador.
var (
	ErrNotFound    = errors.New("not_found")
	ErrPermission  = errors.New("permission_denied")
	ErrPersistence = errors.New("persistence_failed")
	ErrValidation  = errors.New("validation_failed")
	// ErrConflict é um insert recusado por índice único.
	ErrConflict = errors.New("conflict")
)

// Stage identifica a etapa da confirmação que falhou.
type Stage string

const (
	StageAppointment Stage = "appointment"
	StageSession     Stage = "session"
	StageLedger      Stage = "ledger"
	StageOwnership   Stage = "ownership"
	StageProject     Stage = "project"
)

type ReconciliationError struct {
	Stage Stage
	Kind  error
	Err   error
}

func (e *ReconciliationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *ReconciliationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Fail(stage Stage, kind, err error) *ReconciliationError {
	return &ReconciliationError{Stage: stage, Kind: kind, Err: err}
}

// Persistence classifica um erro do banco: not-found continua not-found,
// o resto é falha de persistência.
func Persistence(stage Stage, err error) *ReconciliationError {
	if errors.Is(err, ErrNotFound) {
		return Fail(stage, ErrNotFound, err)
	}
	return Fail(stage, ErrPersistence, err)
}

// StageOf devolve a etapa que falhou, ou "" se err não for de reconciliação.
func StageOf(err error) Stage {
	var re *ReconciliationError
	if errors.As(err, &re) {
		return re.Stage
	}
	return ""
}
