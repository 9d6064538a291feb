package secitem

import "sync"

// identity is the pair of attributes that addresses a unique stored entry.
type identity struct {
	service string
	account string
}

type memItem struct {
	data        []byte
	label       string
	comment     string
	description string
}

// MemConn is an in-memory Conn for testing and for platforms without a
// Keychain. It speaks the same status-code protocol as the real store,
// including the quirk of reporting StatusDuplicateItem when the required
// service attribute is missing or empty.
type MemConn struct {
	mu    sync.RWMutex
	items map[identity]*memItem
}

// NewMemConn creates an empty in-memory store connection.
func NewMemConn() *MemConn {
	return &MemConn{items: make(map[identity]*memItem)}
}

func queryIdentity(q Query) (identity, bool) {
	svc, ok := q[Service].(string)
	if !ok || svc == "" {
		return identity{}, false
	}
	acct, _ := q[Account].(string)
	return identity{service: svc, account: acct}, true
}

func (c *MemConn) AddItem(attrs Query) Status {
	if cls, ok := attrs[Class].(string); !ok || cls != ClassGenericPassword {
		return StatusParam
	}

	id, ok := queryIdentity(attrs)
	if !ok {
		// SecItemAdd reports a duplicate for a missing required attribute.
		return StatusDuplicateItem
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[id]; exists {
		return StatusDuplicateItem
	}

	item := &memItem{}
	if data, ok := attrs[ValueData].([]byte); ok {
		item.data = append([]byte(nil), data...)
	}
	item.label, _ = attrs[Label].(string)
	item.comment, _ = attrs[Comment].(string)
	item.description, _ = attrs[Description].(string)

	c.items[id] = item
	return StatusSuccess
}

func (c *MemConn) UpdateItem(query, patch Query) Status {
	id, ok := queryIdentity(query)
	if !ok {
		return StatusItemNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[id]
	if !exists {
		return StatusItemNotFound
	}

	if data, ok := patch[ValueData].([]byte); ok {
		item.data = append([]byte(nil), data...)
	}
	if label, ok := patch[Label].(string); ok {
		item.label = label
	}
	return StatusSuccess
}

func (c *MemConn) FindItem(query Query) (Status, any) {
	id, ok := queryIdentity(query)
	if !ok {
		return StatusItemNotFound, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[id]
	if !exists {
		return StatusItemNotFound, nil
	}

	if wantData, _ := query[ReturnData].(bool); wantData {
		return StatusSuccess, append([]byte(nil), item.data...)
	}

	attrs := map[Attr]any{Service: id.service}
	if id.account != "" {
		attrs[Account] = id.account
	}
	if item.label != "" {
		attrs[Label] = item.label
	}
	if item.comment != "" {
		attrs[Comment] = item.comment
	}
	if item.description != "" {
		attrs[Description] = item.description
	}
	return StatusSuccess, attrs
}

func (c *MemConn) DeleteItem(query Query) Status {
	id, ok := queryIdentity(query)
	if !ok {
		return StatusItemNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[id]; !exists {
		return StatusItemNotFound
	}
	delete(c.items, id)
	return StatusSuccess
}
