//go:build darwin

package secitem

import (
	"errors"

	gokeychain "github.com/keybase/go-keychain"
)

// SystemConn talks to the real Keychain through the Security framework.
type SystemConn struct{}

// NewSystemConn returns a connection to the user's login Keychain.
func NewSystemConn() *SystemConn {
	return &SystemConn{}
}

func (c *SystemConn) AddItem(attrs Query) Status {
	item := buildItem(attrs)
	// Never synced to iCloud, never available while the machine is locked.
	item.SetSynchronizable(gokeychain.SynchronizableNo)
	item.SetAccessible(gokeychain.AccessibleWhenUnlockedThisDeviceOnly)
	return statusOf(gokeychain.AddItem(item))
}

func (c *SystemConn) UpdateItem(query, patch Query) Status {
	return statusOf(gokeychain.UpdateItem(buildItem(query), buildItem(patch)))
}

func (c *SystemConn) FindItem(query Query) (Status, any) {
	// QueryItem swallows errSecItemNotFound and returns an empty result set.
	results, err := gokeychain.QueryItem(buildItem(query))
	if err != nil {
		return statusOf(err), nil
	}
	if len(results) == 0 {
		return StatusItemNotFound, nil
	}
	if wantData, _ := query[ReturnData].(bool); wantData {
		return StatusSuccess, results[0].Data
	}
	return StatusSuccess, results[0]
}

func (c *SystemConn) DeleteItem(query Query) Status {
	return statusOf(gokeychain.DeleteItem(buildItem(query)))
}

// buildItem converts an attribute Query into the Security framework item form.
func buildItem(q Query) gokeychain.Item {
	item := gokeychain.NewItem()
	if cls, ok := q[Class].(string); ok && cls == ClassGenericPassword {
		item.SetSecClass(gokeychain.SecClassGenericPassword)
	}
	if v, ok := q[Service].(string); ok {
		item.SetService(v)
	}
	if v, ok := q[Account].(string); ok {
		item.SetAccount(v)
	}
	if v, ok := q[Label].(string); ok {
		item.SetLabel(v)
	}
	if v, ok := q[Comment].(string); ok {
		item.SetComment(v)
	}
	if v, ok := q[Description].(string); ok {
		item.SetDescription(v)
	}
	if v, ok := q[ValueData].([]byte); ok {
		item.SetData(v)
	}
	if v, ok := q[MatchLimit].(string); ok && v == MatchLimitOne {
		item.SetMatchLimit(gokeychain.MatchLimitOne)
	}
	if v, ok := q[ReturnData].(bool); ok {
		item.SetReturnData(v)
	}
	return item
}

// statusOf recovers the raw OSStatus from a go-keychain error.
func statusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	var kerr gokeychain.Error
	if errors.As(err, &kerr) {
		return Status(kerr)
	}
	return StatusInternalComponent
}
