// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package bns

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/iotexproject/iotex-bns/action"
)

func bucketIndex(length int) int {
	idx := length - 1
	if idx < 0 {
		idx = 0
	}
	if idx > action.PriceBuckets-1 {
		idx = action.PriceBuckets - 1
	}
	return idx
}

// validatePriceFunction checks the shape of pf, and that the most expensive bucket is still computable
func validatePriceFunction(pf action.PriceFunction, maxExponent uint64) error {
	if pf.Base == 0 || pf.Coeff == 0 || pf.NonAlphaDiscount == 0 || pf.NoVowelDiscount == 0 {
		return ErrNamespacePriceFunctionInvalid.wrapf("base, coeff and discounts must be positive")
	}
	var top uint64
	for i, e := range pf.Buckets {
		if e > maxExponent {
			return ErrNamespacePriceFunctionInvalid.wrapf("bucket %d exponent %d exceeds %d", i, e, maxExponent)
		}
		if e > top {
			top = e
		}
	}
	if _, err := basePrice(pf, top); err != nil {
		return ErrNamespacePriceFunctionInvalid.wrap(err)
	}
	return nil
}

// basePrice returns base^exponent * coeff, failing with ErrArithmeticOverflow instead of wrapping
func basePrice(pf action.PriceFunction, exponent uint64) (*uint256.Int, error) {
	var (
		cost     = uint256.NewInt(1)
		base     = uint256.NewInt(pf.Base)
		overflow bool
	)
	if pf.Base > 1 {
		for i := uint64(0); i < exponent; i++ {
			if cost, overflow = cost.MulOverflow(cost, base); overflow {
				return nil, ErrArithmeticOverflow.wrapf("%d^%d", pf.Base, exponent)
			}
		}
	}
	if cost, overflow = cost.MulOverflow(cost, uint256.NewInt(pf.Coeff)); overflow {
		return nil, ErrArithmeticOverflow.wrapf("%d^%d*%d", pf.Base, exponent, pf.Coeff)
	}
	return cost, nil
}

// namePrice computes the cost of name under pf. A name with a '-' or '_' gets the non-alphanumeric discount,
// otherwise a name without vowel gets the no-vowel discount. The result is never below floor.
func namePrice(pf action.PriceFunction, name string, floor uint64) (*big.Int, error) {
	cost, err := basePrice(pf, pf.Buckets[bucketIndex(len(name))])
	if err != nil {
		return nil, err
	}
	discount := uint64(1)
	switch {
	case hasNonAlnum(name):
		discount = pf.NonAlphaDiscount
	case !hasVowel(name):
		discount = pf.NoVowelDiscount
	}
	if discount == 0 {
		return nil, ErrNamespacePriceFunctionInvalid.wrapf("zero discount")
	}
	if discount > 1 {
		cost = cost.Div(cost, uint256.NewInt(discount))
	}
	if cost.LtUint64(floor) {
		cost = uint256.NewInt(floor)
	}
	return cost.ToBig(), nil
}
