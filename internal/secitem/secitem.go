// Package secitem models the query/status protocol of the macOS Security
// framework's item store (SecItemAdd and friends).
//
// Callers describe an item as a flat attribute map and get back a raw
// OSStatus. The package deliberately stays at that level: attribute-to-item
// translation and status-to-error translation live in the keyfob package,
// so the store itself remains an opaque collaborator that can be swapped
// for the in-memory implementation in tests.
package secitem

// Attr is a Sec item attribute key. The string values mirror the
// CFString constants the Security framework uses on the wire
// (kSecAttrService is "svce", kSecValueData is "v_Data", and so on).
type Attr string

const (
	Class       Attr = "class"
	Service     Attr = "svce"
	Account     Attr = "acct"
	Label       Attr = "labl"
	Comment     Attr = "icmt"
	Description Attr = "desc"
	ValueData   Attr = "v_Data"
	MatchLimit  Attr = "m_Limit"
	ReturnData  Attr = "r_Data"
)

// ClassGenericPassword tags an item as a generic password (kSecClassGenericPassword).
const ClassGenericPassword = "genp"

// MatchLimitOne asks a find to return at most one match.
const MatchLimitOne = "m_LimitOne"

// Query is one attribute mapping sent to the store. Built fresh per
// operation, never reused or persisted.
type Query map[Attr]any

// Status is a raw OSStatus code as returned by the Security framework.
type Status int32

const (
	// StatusSuccess is errSecSuccess.
	StatusSuccess Status = 0
	// StatusItemNotFound is errSecItemNotFound.
	StatusItemNotFound Status = -25300
	// StatusDuplicateItem is errSecDuplicateItem. SecItemAdd also reports
	// this when a required attribute is missing, so it does double duty.
	StatusDuplicateItem Status = -25299
	// StatusParam is errSecParam: a query the store refuses to interpret.
	StatusParam Status = -50
	// StatusInternalComponent is errSecInternalComponent, used as the
	// catch-all when a backend fails outside the Security status space.
	StatusInternalComponent Status = -2070
)

// Conn is one connection to the secure item store.
//
// FindItem returns the payload as an opaque value: with ReturnData set it
// is the raw secret bytes, otherwise an attribute mapping. Interpreting the
// payload is the caller's problem, exactly as it is with CFTypeRef results.
type Conn interface {
	AddItem(attrs Query) Status
	UpdateItem(query, patch Query) Status
	FindItem(query Query) (Status, any)
	DeleteItem(query Query) Status
}
