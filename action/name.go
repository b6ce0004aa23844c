// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"math/big"

	"github.com/iotexproject/iotex-address/address"
)

type (
	// NamePreorder commits to a name in a launched namespace. Only the namespace is disclosed.
	NamePreorder struct {
		namespace  string
		commitment []byte
		burn       *big.Int
	}

	// NameRegister discloses the name committed to by an earlier preorder
	NameRegister struct {
		namespace    string
		name         string
		salt         []byte
		zonefileHash []byte
	}

	// NameUpdate replaces the zonefile hash of a name
	NameUpdate struct {
		namespace    string
		name         string
		zonefileHash []byte
	}

	// NameRenew extends the lease of a name
	NameRenew struct {
		namespace string
		name      string
		payment   *big.Int
	}

	// NameTransfer hands a name to a new owner
	NameTransfer struct {
		namespace     string
		name          string
		newOwner      address.Address
		clearZonefile bool
	}

	// NameRevoke permanently disables a name
	NameRevoke struct {
		namespace string
		name      string
	}
)

// NewNamePreorder returns a NamePreorder instance
func NewNamePreorder(namespace string, commitment []byte, burn *big.Int) *NamePreorder {
	return &NamePreorder{
		namespace:  namespace,
		commitment: commitment,
		burn:       burn,
	}
}

// Namespace returns the namespace id
func (act *NamePreorder) Namespace() string { return act.namespace }

// Commitment returns the committed hash
func (act *NamePreorder) Commitment() []byte { return act.commitment }

// Burn returns the amount burned by the preorder
func (act *NamePreorder) Burn() *big.Int { return act.burn }

// SanityCheck validates the variables in the action
func (act *NamePreorder) SanityCheck() error { return checkAmount(act.burn) }

func (act *NamePreorder) actionName() string { return "namePreorder" }

func (act *NamePreorder) rlpFields() []interface{} {
	return []interface{}{act.namespace, act.commitment, act.burn}
}

// NewNameRegister returns a NameRegister instance
func NewNameRegister(namespace, name string, salt, zonefileHash []byte) *NameRegister {
	return &NameRegister{
		namespace:    namespace,
		name:         name,
		salt:         salt,
		zonefileHash: zonefileHash,
	}
}

// Namespace returns the namespace id
func (act *NameRegister) Namespace() string { return act.namespace }

// Name returns the name
func (act *NameRegister) Name() string { return act.name }

// Salt returns the salt of the commitment
func (act *NameRegister) Salt() []byte { return act.salt }

// ZonefileHash returns the zonefile hash
func (act *NameRegister) ZonefileHash() []byte { return act.zonefileHash }

// SanityCheck validates the variables in the action
func (act *NameRegister) SanityCheck() error { return nil }

func (act *NameRegister) actionName() string { return "nameRegister" }

func (act *NameRegister) rlpFields() []interface{} {
	return []interface{}{act.namespace, act.name, act.salt, act.zonefileHash}
}

// NewNameUpdate returns a NameUpdate instance
func NewNameUpdate(namespace, name string, zonefileHash []byte) *NameUpdate {
	return &NameUpdate{
		namespace:    namespace,
		name:         name,
		zonefileHash: zonefileHash,
	}
}

// Namespace returns the namespace id
func (act *NameUpdate) Namespace() string { return act.namespace }

// Name returns the name
func (act *NameUpdate) Name() string { return act.name }

// ZonefileHash returns the zonefile hash
func (act *NameUpdate) ZonefileHash() []byte { return act.zonefileHash }

// SanityCheck validates the variables in the action
func (act *NameUpdate) SanityCheck() error { return nil }

func (act *NameUpdate) actionName() string { return "nameUpdate" }

func (act *NameUpdate) rlpFields() []interface{} {
	return []interface{}{act.namespace, act.name, act.zonefileHash}
}

// NewNameRenew returns a NameRenew instance
func NewNameRenew(namespace, name string, payment *big.Int) *NameRenew {
	return &NameRenew{
		namespace: namespace,
		name:      name,
		payment:   payment,
	}
}

// Namespace returns the namespace id
func (act *NameRenew) Namespace() string { return act.namespace }

// Name returns the name
func (act *NameRenew) Name() string { return act.name }

// Payment returns the renewal payment
func (act *NameRenew) Payment() *big.Int { return act.payment }

// SanityCheck validates the variables in the action
func (act *NameRenew) SanityCheck() error { return checkAmount(act.payment) }

func (act *NameRenew) actionName() string { return "nameRenew" }

func (act *NameRenew) rlpFields() []interface{} {
	return []interface{}{act.namespace, act.name, act.payment}
}

// NewNameTransfer returns a NameTransfer instance
func NewNameTransfer(namespace, name string, newOwner address.Address, clearZonefile bool) *NameTransfer {
	return &NameTransfer{
		namespace:     namespace,
		name:          name,
		newOwner:      newOwner,
		clearZonefile: clearZonefile,
	}
}

// Namespace returns the namespace id
func (act *NameTransfer) Namespace() string { return act.namespace }

// Name returns the name
func (act *NameTransfer) Name() string { return act.name }

// NewOwner returns the recipient of the name
func (act *NameTransfer) NewOwner() address.Address { return act.newOwner }

// ClearZonefile returns whether the zonefile hash is dropped on transfer
func (act *NameTransfer) ClearZonefile() bool { return act.clearZonefile }

// SanityCheck validates the variables in the action
func (act *NameTransfer) SanityCheck() error {
	if act.newOwner == nil {
		return ErrAddress
	}
	return nil
}

func (act *NameTransfer) actionName() string { return "nameTransfer" }

func (act *NameTransfer) rlpFields() []interface{} {
	return []interface{}{act.namespace, act.name, addrBytes(act.newOwner), act.clearZonefile}
}

// NewNameRevoke returns a NameRevoke instance
func NewNameRevoke(namespace, name string) *NameRevoke {
	return &NameRevoke{
		namespace: namespace,
		name:      name,
	}
}

// Namespace returns the namespace id
func (act *NameRevoke) Namespace() string { return act.namespace }

// Name returns the name
func (act *NameRevoke) Name() string { return act.name }

// SanityCheck validates the variables in the action
func (act *NameRevoke) SanityCheck() error { return nil }

func (act *NameRevoke) actionName() string { return "nameRevoke" }

func (act *NameRevoke) rlpFields() []interface{} {
	return []interface{}{act.namespace, act.name}
}
