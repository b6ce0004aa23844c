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
	// NamespacePreorder commits to a namespace by the hash of its id and a salt
	NamespacePreorder struct {
		commitment []byte
		burn       *big.Int
	}

	// NamespaceReveal discloses the namespace committed to by an earlier preorder
	NamespaceReveal struct {
		namespace     string
		salt          []byte
		priceFunction PriceFunction
		lifetime      uint64
		importer      address.Address
	}

	// NameImport creates a name in an unlaunched namespace
	NameImport struct {
		namespace    string
		name         string
		beneficiary  address.Address
		zonefileHash []byte
	}

	// NamespaceReady launches a namespace
	NamespaceReady struct {
		namespace string
	}

	// NamespaceUpdatePrice replaces the price function of an unlaunched namespace
	NamespaceUpdatePrice struct {
		namespace     string
		priceFunction PriceFunction
	}

	// NamespaceRevokePriceEdition freezes the price function of a namespace
	NamespaceRevokePriceEdition struct {
		namespace string
	}
)

// NewNamespacePreorder returns a NamespacePreorder instance
func NewNamespacePreorder(commitment []byte, burn *big.Int) *NamespacePreorder {
	return &NamespacePreorder{
		commitment: commitment,
		burn:       burn,
	}
}

// Commitment returns the committed hash
func (act *NamespacePreorder) Commitment() []byte { return act.commitment }

// Burn returns the amount burned by the preorder
func (act *NamespacePreorder) Burn() *big.Int { return act.burn }

// SanityCheck validates the variables in the action
func (act *NamespacePreorder) SanityCheck() error { return checkAmount(act.burn) }

func (act *NamespacePreorder) actionName() string { return "namespacePreorder" }

func (act *NamespacePreorder) rlpFields() []interface{} {
	return []interface{}{act.commitment, act.burn}
}

// NewNamespaceReveal returns a NamespaceReveal instance
func NewNamespaceReveal(
	namespace string,
	salt []byte,
	priceFunction PriceFunction,
	lifetime uint64,
	importer address.Address,
) *NamespaceReveal {
	return &NamespaceReveal{
		namespace:     namespace,
		salt:          salt,
		priceFunction: priceFunction,
		lifetime:      lifetime,
		importer:      importer,
	}
}

// Namespace returns the namespace id
func (act *NamespaceReveal) Namespace() string { return act.namespace }

// Salt returns the salt of the commitment
func (act *NamespaceReveal) Salt() []byte { return act.salt }

// PriceFunction returns the price function
func (act *NamespaceReveal) PriceFunction() PriceFunction { return act.priceFunction }

// Lifetime returns the lease length of names in blocks, 0 means names never expire
func (act *NamespaceReveal) Lifetime() uint64 { return act.lifetime }

// Importer returns the principal allowed to import names
func (act *NamespaceReveal) Importer() address.Address { return act.importer }

// SanityCheck validates the variables in the action
func (act *NamespaceReveal) SanityCheck() error {
	if act.importer == nil {
		return ErrAddress
	}
	return nil
}

func (act *NamespaceReveal) actionName() string { return "namespaceReveal" }

func (act *NamespaceReveal) rlpFields() []interface{} {
	return []interface{}{
		act.namespace,
		act.salt,
		act.priceFunction.rlpFields(),
		act.lifetime,
		addrBytes(act.importer),
	}
}

// NewNameImport returns a NameImport instance. A nil beneficiary assigns the name to the importer.
func NewNameImport(namespace, name string, beneficiary address.Address, zonefileHash []byte) *NameImport {
	return &NameImport{
		namespace:    namespace,
		name:         name,
		beneficiary:  beneficiary,
		zonefileHash: zonefileHash,
	}
}

// Namespace returns the namespace id
func (act *NameImport) Namespace() string { return act.namespace }

// Name returns the name
func (act *NameImport) Name() string { return act.name }

// Beneficiary returns the owner of the imported name
func (act *NameImport) Beneficiary() address.Address { return act.beneficiary }

// ZonefileHash returns the zonefile hash
func (act *NameImport) ZonefileHash() []byte { return act.zonefileHash }

// SanityCheck validates the variables in the action
func (act *NameImport) SanityCheck() error { return nil }

func (act *NameImport) actionName() string { return "nameImport" }

func (act *NameImport) rlpFields() []interface{} {
	return []interface{}{act.namespace, act.name, addrBytes(act.beneficiary), act.zonefileHash}
}

// NewNamespaceReady returns a NamespaceReady instance
func NewNamespaceReady(namespace string) *NamespaceReady {
	return &NamespaceReady{namespace: namespace}
}

// Namespace returns the namespace id
func (act *NamespaceReady) Namespace() string { return act.namespace }

// SanityCheck validates the variables in the action
func (act *NamespaceReady) SanityCheck() error { return nil }

func (act *NamespaceReady) actionName() string { return "namespaceReady" }

func (act *NamespaceReady) rlpFields() []interface{} { return []interface{}{act.namespace} }

// NewNamespaceUpdatePrice returns a NamespaceUpdatePrice instance
func NewNamespaceUpdatePrice(namespace string, priceFunction PriceFunction) *NamespaceUpdatePrice {
	return &NamespaceUpdatePrice{
		namespace:     namespace,
		priceFunction: priceFunction,
	}
}

// Namespace returns the namespace id
func (act *NamespaceUpdatePrice) Namespace() string { return act.namespace }

// PriceFunction returns the new price function
func (act *NamespaceUpdatePrice) PriceFunction() PriceFunction { return act.priceFunction }

// SanityCheck validates the variables in the action
func (act *NamespaceUpdatePrice) SanityCheck() error { return nil }

func (act *NamespaceUpdatePrice) actionName() string { return "namespaceUpdatePrice" }

func (act *NamespaceUpdatePrice) rlpFields() []interface{} {
	return []interface{}{act.namespace, act.priceFunction.rlpFields()}
}

// NewNamespaceRevokePriceEdition returns a NamespaceRevokePriceEdition instance
func NewNamespaceRevokePriceEdition(namespace string) *NamespaceRevokePriceEdition {
	return &NamespaceRevokePriceEdition{namespace: namespace}
}

// Namespace returns the namespace id
func (act *NamespaceRevokePriceEdition) Namespace() string { return act.namespace }

// SanityCheck validates the variables in the action
func (act *NamespaceRevokePriceEdition) SanityCheck() error { return nil }

func (act *NamespaceRevokePriceEdition) actionName() string { return "namespaceRevokePriceEdition" }

func (act *NamespaceRevokePriceEdition) rlpFields() []interface{} {
	return []interface{}{act.namespace}
}
