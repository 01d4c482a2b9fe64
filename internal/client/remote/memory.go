package remote

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/google/uuid"
)

// Memory is an in-process Store. It stands in for a real backend in tests
// and in the "memory" backend setting, and can be switched offline.
type Memory struct {
	mu       sync.Mutex
	docs     map[string]map[string]map[string]any // owner/collection -> id -> fields
	order    map[string][]string
	profiles map[string]map[string]any
	offline  bool
	calls    map[string]int
}

func NewMemory() *Memory {
	return &Memory{
		docs:     make(map[string]map[string]map[string]any),
		order:    make(map[string][]string),
		profiles: make(map[string]map[string]any),
		calls:    make(map[string]int),
	}
}

// SetOffline makes every following call fail with ErrUnavailable.
func (m *Memory) SetOffline(offline bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offline = offline
}

// Calls reports how many times op was invoked, including failed calls.
func (m *Memory) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func key(owner, collection string) string { return owner + "/" + collection }

func (m *Memory) begin(op, owner, collection string) error {
	m.calls[op]++
	if err := checkScope(op, owner, collection); err != nil {
		return err
	}
	if m.offline {
		return common.NewRemoteError(op, collection, common.ErrUnavailable)
	}
	return nil
}

func (m *Memory) Add(_ context.Context, owner, collection string, fields map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("add", owner, collection); err != nil {
		return "", err
	}
	return m.put(owner, collection, uuid.NewString(), fields), nil
}

// Put stores a document under a caller-chosen id, as another device would.
func (m *Memory) Put(owner, collection, id string, fields map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(owner, collection, id, fields)
}

func (m *Memory) put(owner, collection, id string, fields map[string]any) string {
	k := key(owner, collection)
	if m.docs[k] == nil {
		m.docs[k] = make(map[string]map[string]any)
	}
	if _, exists := m.docs[k][id]; !exists {
		m.order[k] = append(m.order[k], id)
	}
	m.docs[k][id] = maps.Clone(fields)
	return id
}

func (m *Memory) Set(_ context.Context, owner, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("set", owner, collection); err != nil {
		return err
	}
	if _, ok := m.docs[key(owner, collection)][id]; !ok {
		return common.NewRemoteError("set", collection, common.ErrNotFound)
	}
	m.put(owner, collection, id, fields)
	return nil
}

func (m *Memory) Delete(_ context.Context, owner, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("delete", owner, collection); err != nil {
		return err
	}
	k := key(owner, collection)
	if _, ok := m.docs[k][id]; !ok {
		return common.NewRemoteError("delete", collection, common.ErrNotFound)
	}
	delete(m.docs[k], id)
	ids := m.order[k][:0]
	for _, x := range m.order[k] {
		if x != id {
			ids = append(ids, x)
		}
	}
	m.order[k] = ids
	return nil
}

func (m *Memory) FetchAll(_ context.Context, owner, collection string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("fetch", owner, collection); err != nil {
		return nil, err
	}
	k := key(owner, collection)
	docs := make([]Document, 0, len(m.order[k]))
	for _, id := range m.order[k] {
		docs = append(docs, Document{ID: id, Fields: maps.Clone(m.docs[k][id])})
	}
	return docs, nil
}

// Get returns a copy of one stored document.
func (m *Memory) Get(owner, collection, id string) (map[string]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.docs[key(owner, collection)][id]
	return maps.Clone(f), ok
}

// IDs lists the document ids of a collection, sorted.
func (m *Memory) IDs(owner, collection string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := append([]string(nil), m.order[key(owner, collection)]...)
	sort.Strings(ids)
	return ids
}

func (m *Memory) GetProfile(_ context.Context, owner string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("get profile", owner, common.CollectionUsers); err != nil {
		return nil, err
	}
	p, ok := m.profiles[owner]
	if !ok {
		return nil, common.NewRemoteError("get profile", common.CollectionUsers, common.ErrNotFound)
	}
	return maps.Clone(p), nil
}

func (m *Memory) SaveProfile(_ context.Context, owner string, profile map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("save profile", owner, common.CollectionUsers); err != nil {
		return err
	}
	m.profiles[owner] = maps.Clone(profile)
	return nil
}
