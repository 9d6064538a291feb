//go:build !darwin

package secitem

// NewSystemConn returns a MemConn on non-darwin platforms. The macOS
// Keychain is not available outside of macOS; items are held in memory
// only and will not persist across restarts.
func NewSystemConn() *MemConn {
	return NewMemConn()
}
