// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

// PriceBuckets is the number of length buckets in a price function
const PriceBuckets = 16

// PriceFunction is the pricing parameter record of a namespace. Bucket i holds the exponent
// for names of length i+1, and the last bucket covers every longer name.
type PriceFunction struct {
	Buckets          [PriceBuckets]uint64
	Base             uint64
	Coeff            uint64
	NonAlphaDiscount uint64
	NoVowelDiscount  uint64
}

func (pf PriceFunction) rlpFields() []interface{} {
	return []interface{}{pf.Buckets[:], pf.Base, pf.Coeff, pf.NonAlphaDiscount, pf.NoVowelDiscount}
}
