// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package batch

const (
	// Put indicate the type of write operation to be Put
	Put WriteType = iota
	// Delete indicate the type of write operation to be Delete
	Delete
)

type (
	// WriteType is the type of write
	WriteType uint8

	// WriteInfo is the struct to store Put/Delete operation info
	WriteInfo struct {
		writeType    WriteType
		namespace    string
		key          []byte
		value        []byte
		errorMessage string
	}
)

// NewWriteInfo creates a new write info
func NewWriteInfo(writeType WriteType, namespace string, key, value []byte, errorMessage string) *WriteInfo {
	return &WriteInfo{
		writeType:    writeType,
		namespace:    namespace,
		key:          key,
		value:        value,
		errorMessage: errorMessage,
	}
}

// Namespace returns the namespace of a write info
func (wi *WriteInfo) Namespace() string {
	return wi.namespace
}

// Key returns the key of a write info
func (wi *WriteInfo) Key() []byte {
	return wi.key
}

// WriteType returns the type of a write info
func (wi *WriteInfo) WriteType() WriteType {
	return wi.writeType
}

// Value returns a copy of the value of a write info
func (wi *WriteInfo) Value() []byte {
	if wi.value == nil {
		return nil
	}
	value := make([]byte, len(wi.value))
	copy(value, wi.value)
	return value
}

// Error returns the error message attached to the write
func (wi *WriteInfo) Error() string {
	return wi.errorMessage
}
