// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/iotexproject/go-pkgs/hash"
)

const (
	// FailureReceiptStatus is the status that the action is rejected before any protocol handles it
	FailureReceiptStatus = uint64(0)
	// SuccessReceiptStatus is the status that the action is applied successfully
	SuccessReceiptStatus = uint64(1)
)

// Receipt represents the result of an action. A failed BNS action carries its error code as status.
type Receipt struct {
	Status      uint64
	BlockHeight uint64
	ActionHash  hash.Hash256
	ReturnValue []byte
	Message     string
}

// Succeeded returns whether the action was applied
func (receipt *Receipt) Succeeded() bool {
	return receipt.Status == SuccessReceiptStatus
}
