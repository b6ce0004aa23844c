// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package bns

import (
	"bytes"

	"github.com/iotexproject/iotex-address/address"
)

func sameAddress(a, b address.Address) bool {
	return a != nil && b != nil && bytes.Equal(a.Bytes(), b.Bytes())
}

// requireOwner fails with denied unless caller is owner
func requireOwner(owner, caller address.Address, denied *Error) error {
	if sameAddress(owner, caller) {
		return nil
	}
	if caller == nil {
		return denied.wrapf("missing caller")
	}
	return denied.wrapf("caller %s is not the owner", caller.String())
}

// requireImporter fails unless caller is the designated importer of ns
func requireImporter(ns *Namespace, caller address.Address) error {
	if sameAddress(ns.Importer, caller) {
		return nil
	}
	if caller == nil {
		return ErrNamespaceUnauthorizedImporter.wrapf("missing caller")
	}
	return ErrNamespaceUnauthorizedImporter.wrapf("caller %s is not the importer of %s", caller.String(), ns.ID)
}
