// Package keyfob stores named secrets as generic passwords in the macOS
// Keychain.
//
// A secret is addressed by an Item: the service is required, the account
// optional, and together they form the entry's identity. Label, comment and
// description are stored alongside but never participate in identity.
//
// Items are scoped with kSecAttrAccessibleWhenUnlockedThisDeviceOnly:
// never synced to iCloud, never available when the machine is locked.
package keyfob

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/avwilde/keyfob/internal/secitem"
)

// Item identifies one stored secret. Empty optional fields are treated as
// absent and are not sent to the Keychain.
type Item struct {
	// Service names the owning application or service. Required.
	Service string
	// Account names the user or account the secret belongs to.
	Account string
	// Comment is an unprotected annotation, stored but not used for lookup.
	Comment string
	// Description is an unprotected classification, stored but not used
	// for lookup.
	Description string
}

// String renders the item's identity as "service/account".
func (it Item) String() string {
	if it.Account == "" {
		return it.Service
	}
	return it.Service + "/" + it.Account
}

// Keeper is the interface for secret storage operations. *Store implements
// it against the Keychain; decorators wrap it.
type Keeper interface {
	Add(secret []byte, item Item, label string) error
	Update(secret []byte, item Item) error
	Upsert(secret []byte, item Item) error
	Retrieve(item Item) ([]byte, error)
	Delete(item Item) error
}

// Store provides CRUD operations for secrets in the Keychain.
type Store struct {
	conn secitem.Conn
}

// New creates a Store backed by the system Keychain. On non-darwin
// platforms the backing store is memory only.
func New() *Store {
	return &Store{conn: secitem.NewSystemConn()}
}

// NewWithConn creates a Store over an explicit store connection.
func NewWithConn(conn secitem.Conn) *Store {
	return &Store{conn: conn}
}

// Add stores a new secret for the item's identity. label is an optional
// human-readable name shown in Keychain Access.app; pass "" for none.
// Returns ErrDuplicateItem if an entry with this identity already exists.
func (s *Store) Add(secret []byte, item Item, label string) error {
	q := identityQuery(item)
	q[secitem.ValueData] = secret
	if label != "" {
		q[secitem.Label] = label
	}
	if err := statusError(s.conn.AddItem(q)); err != nil {
		return fmt.Errorf("keychain add %q: %w", item, err)
	}
	return nil
}

// AddString stores a UTF-8 text secret. See Add.
func (s *Store) AddString(secret string, item Item, label string) error {
	return s.Add([]byte(secret), item, label)
}

// Update replaces the secret for an existing entry. Returns ErrNotFound
// if no entry with this identity exists.
func (s *Store) Update(secret []byte, item Item) error {
	patch := secitem.Query{secitem.ValueData: secret}
	if err := statusError(s.conn.UpdateItem(identityQuery(item), patch)); err != nil {
		return fmt.Errorf("keychain update %q: %w", item, err)
	}
	return nil
}

// UpdateString replaces the secret with UTF-8 text. See Update.
func (s *Store) UpdateString(secret string, item Item) error {
	return s.Update([]byte(secret), item)
}

// Upsert updates the entry if it exists and adds it (with no label)
// otherwise. Only ErrNotFound from the update triggers the add; every
// other failure propagates unchanged.
func (s *Store) Upsert(secret []byte, item Item) error {
	err := s.Update(secret, item)
	if errors.Is(err, ErrNotFound) {
		return s.Add(secret, item, "")
	}
	return err
}

// UpsertString upserts a UTF-8 text secret. See Upsert.
func (s *Store) UpsertString(secret string, item Item) error {
	return s.Upsert([]byte(secret), item)
}

// Retrieve returns the secret bytes for the item's identity. Returns
// ErrNotFound if no entry matches, and ErrUnexpectedPayload if the
// Keychain response cannot be interpreted as bytes.
func (s *Store) Retrieve(item Item) ([]byte, error) {
	q := identityQuery(item)
	q[secitem.MatchLimit] = secitem.MatchLimitOne
	q[secitem.ReturnData] = true

	st, payload := s.conn.FindItem(q)
	if err := statusError(st); err != nil {
		return nil, fmt.Errorf("keychain find %q: %w", item, err)
	}
	data, ok := payload.([]byte)
	if !ok {
		return nil, fmt.Errorf("keychain find %q: %w", item, ErrUnexpectedPayload)
	}
	return data, nil
}

// RetrieveString returns the stored secret as text. ok is false, with no
// error, when the stored bytes are not valid UTF-8.
func (s *Store) RetrieveString(item Item) (value string, ok bool, err error) {
	data, err := s.Retrieve(item)
	if err != nil {
		return "", false, err
	}
	if !utf8.Valid(data) {
		return "", false, nil
	}
	return string(data), true, nil
}

// Delete removes the entry for the item's identity. Returns ErrNotFound
// if no entry matches.
func (s *Store) Delete(item Item) error {
	if err := statusError(s.conn.DeleteItem(identityQuery(item))); err != nil {
		return fmt.Errorf("keychain delete %q: %w", item, err)
	}
	return nil
}
