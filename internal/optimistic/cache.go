// Package optimistic guarda a visão local dos agendamentos de uma tela. A
// confirmação altera esta visão antes de gravar e a desfaz se a gravação falhar.
package optimistic

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type Cache struct {
	mu    sync.RWMutex
	items map[string]models.Appointment
	refs  map[string]Refs
}

// Refs são as linhas já gravadas por confirmações anteriores de um rascunho.
type Refs struct {
	SessionID     *uuid.UUID
	TransactionID *uuid.UUID
}

func NewCache() *Cache {
	return &Cache{
		items: make(map[string]models.Appointment),
		refs:  make(map[string]Refs),
	}
}

func (c *Cache) Get(key string) (models.Appointment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ap, ok := c.items[key]
	return ap, ok
}

func (c *Cache) Put(key string, ap models.Appointment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = ap
}

// Update aplica fn na cópia guardada em key. Devolve false se key não existe.
func (c *Cache) Update(key string, fn func(*models.Appointment)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ap, ok := c.items[key]
	if !ok {
		return false
	}
	fn(&ap)
	c.items[key] = ap
	return true
}

// PutDraft guarda um agendamento ainda não gravado e devolve a chave local.
func (c *Cache) PutDraft(ap models.Appointment) string {
	key := "draft-" + uuid.NewString()
	c.Put(key, ap)
	return key
}

func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	delete(c.refs, key)
}

func (c *Cache) Refs(key string) Refs {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.refs[key]
}

// SetRefs só guarda referências de chaves presentes na visão.
func (c *Cache) SetRefs(key string, r Refs) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; !ok {
		return
	}
	c.refs[key] = r
}

// Load substitui as entradas gravadas pelas linhas lidas do banco. Rascunhos
// locais (chaves que não são uuid) são mantidos.
func (c *Cache) Load(aps []models.Appointment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, ap := range c.items {
		if ap.ID.String() == key {
			delete(c.items, key)
		}
	}
	for _, ap := range aps {
		c.items[ap.ID.String()] = ap
	}
}

type Item struct {
	Key         string
	Appointment models.Appointment
}

// Items devolve a visão ordenada por data e hora de início.
func (c *Cache) Items() []Item {
	c.mu.RLock()
	out := make([]Item, 0, len(c.items))
	for key, ap := range c.items {
		out = append(out, Item{Key: key, Appointment: ap})
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Appointment, out[j].Appointment
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Registry mantém uma visão por usuário autenticado.
type Registry struct {
	mu     sync.Mutex
	caches map[string]*Cache
}

func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]*Cache)}
}

func (r *Registry) For(userID string) *Cache {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.caches[userID]
	if !ok {
		c = NewCache()
		r.caches[userID] = c
	}
	return c
}
