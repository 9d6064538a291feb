package keyfob

import (
	"fmt"
	"unicode/utf8"

	"github.com/avwilde/keyfob/internal/audit"
)

// AuditedStore wraps a Keeper and records every operation to an audit log.
type AuditedStore struct {
	inner Keeper
	audit *audit.Logger
	actor string // "cli" or an embedding application's name
}

// NewAuditedStore wraps an existing store with audit logging.
func NewAuditedStore(inner Keeper, auditLog *audit.Logger, actor string) *AuditedStore {
	return &AuditedStore{
		inner: inner,
		audit: auditLog,
		actor: actor,
	}
}

func (s *AuditedStore) Add(secret []byte, item Item, label string) error {
	if err := s.inner.Add(secret, item, label); err != nil {
		return fmt.Errorf("audited store add: %w", err)
	}

	// Audit logging is best-effort — a failure to log should not block the operation.
	s.audit.Log(audit.Entry{
		Action:  audit.ActionSecretAdd,
		Service: item.Service,
		Account: item.Account,
		Actor:   s.actor,
	})
	return nil
}

func (s *AuditedStore) Update(secret []byte, item Item) error {
	if err := s.inner.Update(secret, item); err != nil {
		return fmt.Errorf("audited store update: %w", err)
	}

	// Audit logging is best-effort — a failure to log should not block the operation.
	s.audit.Log(audit.Entry{
		Action:  audit.ActionSecretUpdate,
		Service: item.Service,
		Account: item.Account,
		Actor:   s.actor,
	})
	return nil
}

func (s *AuditedStore) Upsert(secret []byte, item Item) error {
	if err := s.inner.Upsert(secret, item); err != nil {
		return fmt.Errorf("audited store upsert: %w", err)
	}

	// Audit logging is best-effort — a failure to log should not block the operation.
	s.audit.Log(audit.Entry{
		Action:  audit.ActionSecretUpdate,
		Service: item.Service,
		Account: item.Account,
		Actor:   s.actor,
	})
	return nil
}

func (s *AuditedStore) Retrieve(item Item) ([]byte, error) {
	data, err := s.inner.Retrieve(item)
	if err != nil {
		return nil, fmt.Errorf("audited store retrieve: %w", err)
	}

	// Audit logging is best-effort — a failure to log should not block the operation.
	s.audit.Log(audit.Entry{
		Action:  audit.ActionSecretRead,
		Service: item.Service,
		Account: item.Account,
		Actor:   s.actor,
	})
	return data, nil
}

func (s *AuditedStore) Delete(item Item) error {
	if err := s.inner.Delete(item); err != nil {
		return fmt.Errorf("audited store delete: %w", err)
	}

	// Audit logging is best-effort — a failure to log should not block the operation.
	s.audit.Log(audit.Entry{
		Action:  audit.ActionSecretDelete,
		Service: item.Service,
		Account: item.Account,
		Actor:   s.actor,
	})
	return nil
}

// AddString stores a UTF-8 text secret. See Add.
func (s *AuditedStore) AddString(secret string, item Item, label string) error {
	return s.Add([]byte(secret), item, label)
}

// UpdateString replaces the secret with UTF-8 text. See Update.
func (s *AuditedStore) UpdateString(secret string, item Item) error {
	return s.Update([]byte(secret), item)
}

// UpsertString upserts a UTF-8 text secret. See Upsert.
func (s *AuditedStore) UpsertString(secret string, item Item) error {
	return s.Upsert([]byte(secret), item)
}

// RetrieveString returns the stored secret as text. ok is false, with no
// error, when the stored bytes are not valid UTF-8.
func (s *AuditedStore) RetrieveString(item Item) (value string, ok bool, err error) {
	data, err := s.Retrieve(item)
	if err != nil {
		return "", false, err
	}
	if !utf8.Valid(data) {
		return "", false, nil
	}
	return string(data), true, nil
}
