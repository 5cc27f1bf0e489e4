package reconcile

import "github.com/google/uuid"

// DurableID informa se key é o id de uma linha já gravada. Rascunhos da tela
// usam chaves locais que não são uuid.
func DurableID(key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(key)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
