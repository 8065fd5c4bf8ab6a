// Package storage is the local durable key-value persistence layer used for
// board layout and other small client-side state.
package storage

// ColumnsKey is the key the column layout is stored under.
const ColumnsKey = "crmColumns"

// Store is a synchronous, string-keyed, string-valued durable store.
// Get reports ok=false for an absent key; err is reserved for I/O failures.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}
