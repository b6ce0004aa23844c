// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/iotexproject/iotex-bns/action"
	"github.com/iotexproject/iotex-bns/action/protocol/bns"
)

// ErrInvalidScript indicates a script that cannot be turned into actions
var ErrInvalidScript = errors.New("invalid script")

type (
	// script is a list of blocks to replay in order
	script struct {
		Blocks []scriptBlock `yaml:"blocks"`
	}

	scriptBlock struct {
		Height  uint64         `yaml:"height"`
		Actions []scriptAction `yaml:"actions"`
	}

	// scriptAction carries the fields of any action, each action type reads the ones it needs. Byte fields are 0x
	// prefixed hex, except salts and zonefiles which are taken as text when not prefixed.
	scriptAction struct {
		Type          string               `yaml:"type"`
		Caller        string               `yaml:"caller"`
		Namespace     string               `yaml:"namespace"`
		Name          string               `yaml:"name"`
		Salt          string               `yaml:"salt"`
		Commitment    string               `yaml:"commitment"`
		Burn          string               `yaml:"burn"`
		Amount        string               `yaml:"amount"`
		Recipient     string               `yaml:"recipient"`
		PriceFunction *scriptPriceFunction `yaml:"priceFunction"`
		Lifetime      uint64               `yaml:"lifetime"`
		Importer      string               `yaml:"importer"`
		Beneficiary   string               `yaml:"beneficiary"`
		Zonefile      string               `yaml:"zonefile"`
		NewOwner      string               `yaml:"newOwner"`
		ClearZonefile bool                 `yaml:"clearZonefile"`
	}

	scriptPriceFunction struct {
		Buckets          []uint64 `yaml:"buckets"`
		Base             uint64   `yaml:"base"`
		Coeff            uint64   `yaml:"coeff"`
		NonAlphaDiscount uint64   `yaml:"nonAlphaDiscount"`
		NoVowelDiscount  uint64   `yaml:"noVowelDiscount"`
	}
)

func loadScript(path string) (*script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read script %s", path)
	}
	return parseScript(b)
}

func parseScript(b []byte) (*script, error) {
	var s script
	if err := yaml.UnmarshalStrict(b, &s); err != nil {
		return nil, errors.Wrap(ErrInvalidScript, err.Error())
	}
	var last uint64
	for i, blk := range s.Blocks {
		if blk.Height <= last {
			return nil, errors.Wrapf(ErrInvalidScript, "block %d at height %d does not follow height %d", i, blk.Height, last)
		}
		last = blk.Height
	}
	return &s, nil
}

func (blk *scriptBlock) envelopes() ([]*action.Envelope, error) {
	elps := make([]*action.Envelope, 0, len(blk.Actions))
	for i := range blk.Actions {
		elp, err := blk.Actions[i].envelope()
		if err != nil {
			return nil, errors.Wrapf(err, "action %d of block %d", i, blk.Height)
		}
		elps = append(elps, elp)
	}
	return elps, nil
}

func (sa *scriptAction) envelope() (*action.Envelope, error) {
	caller, err := parseAddress(sa.Caller)
	if err != nil {
		return nil, errors.Wrap(err, "caller")
	}
	if caller == nil {
		return nil, errors.Wrap(ErrInvalidScript, "missing caller")
	}
	act, err := sa.action()
	if err != nil {
		return nil, err
	}
	return action.NewEnvelope(caller, act), nil
}

func (sa *scriptAction) action() (action.Action, error) {
	switch sa.Type {
	case "transfer":
		recipient, err := parseAddress(sa.Recipient)
		if err != nil {
			return nil, err
		}
		amount, err := parseAmount(sa.Amount)
		if err != nil {
			return nil, err
		}
		return action.NewTransfer(recipient, amount), nil
	case "namespacePreorder":
		commitment, err := sa.commitment(bns.NamespaceCommitment(sa.Namespace, sa.salt()))
		if err != nil {
			return nil, err
		}
		burn, err := parseAmount(sa.Burn)
		if err != nil {
			return nil, err
		}
		return action.NewNamespacePreorder(commitment, burn), nil
	case "namespaceReveal":
		pf, err := sa.priceFunction()
		if err != nil {
			return nil, err
		}
		importer, err := parseAddress(sa.Importer)
		if err != nil {
			return nil, err
		}
		return action.NewNamespaceReveal(sa.Namespace, sa.salt(), pf, sa.Lifetime, importer), nil
	case "nameImport":
		beneficiary, err := parseAddress(sa.Beneficiary)
		if err != nil {
			return nil, err
		}
		return action.NewNameImport(sa.Namespace, sa.Name, beneficiary, sa.zonefile()), nil
	case "namespaceReady":
		return action.NewNamespaceReady(sa.Namespace), nil
	case "namespaceUpdatePrice":
		pf, err := sa.priceFunction()
		if err != nil {
			return nil, err
		}
		return action.NewNamespaceUpdatePrice(sa.Namespace, pf), nil
	case "namespaceRevokePriceEdition":
		return action.NewNamespaceRevokePriceEdition(sa.Namespace), nil
	case "namePreorder":
		commitment, err := sa.commitment(bns.NameCommitment(sa.Name, sa.Namespace, sa.salt()))
		if err != nil {
			return nil, err
		}
		burn, err := parseAmount(sa.Burn)
		if err != nil {
			return nil, err
		}
		return action.NewNamePreorder(sa.Namespace, commitment, burn), nil
	case "nameRegister":
		return action.NewNameRegister(sa.Namespace, sa.Name, sa.salt(), sa.zonefile()), nil
	case "nameUpdate":
		return action.NewNameUpdate(sa.Namespace, sa.Name, sa.zonefile()), nil
	case "nameRenew":
		payment, err := parseAmount(sa.Amount)
		if err != nil {
			return nil, err
		}
		return action.NewNameRenew(sa.Namespace, sa.Name, payment), nil
	case "nameTransfer":
		newOwner, err := parseAddress(sa.NewOwner)
		if err != nil {
			return nil, err
		}
		return action.NewNameTransfer(sa.Namespace, sa.Name, newOwner, sa.ClearZonefile), nil
	case "nameRevoke":
		return action.NewNameRevoke(sa.Namespace, sa.Name), nil
	default:
		return nil, errors.Wrapf(ErrInvalidScript, "unknown action type %q", sa.Type)
	}
}

// commitment returns the explicit commitment, or the one computed from the disclosed fields
func (sa *scriptAction) commitment(computed hash.Hash160) ([]byte, error) {
	if sa.Commitment == "" {
		return computed[:], nil
	}
	b, err := hexutil.Decode(sa.Commitment)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidScript, "commitment %s: %v", sa.Commitment, err)
	}
	return b, nil
}

func (sa *scriptAction) salt() []byte { return textOrHex(sa.Salt) }

func (sa *scriptAction) zonefile() []byte { return textOrHex(sa.Zonefile) }

func (sa *scriptAction) priceFunction() (action.PriceFunction, error) {
	var pf action.PriceFunction
	if sa.PriceFunction == nil {
		return pf, errors.Wrap(ErrInvalidScript, "missing price function")
	}
	if len(sa.PriceFunction.Buckets) != action.PriceBuckets {
		return pf, errors.Wrapf(ErrInvalidScript, "expect %d buckets, got %d", action.PriceBuckets, len(sa.PriceFunction.Buckets))
	}
	copy(pf.Buckets[:], sa.PriceFunction.Buckets)
	pf.Base = sa.PriceFunction.Base
	pf.Coeff = sa.PriceFunction.Coeff
	pf.NonAlphaDiscount = sa.PriceFunction.NonAlphaDiscount
	pf.NoVowelDiscount = sa.PriceFunction.NoVowelDiscount
	return pf, nil
}

func parseAddress(s string) (address.Address, error) {
	if s == "" {
		return nil, nil
	}
	addr, err := address.FromString(s)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidScript, "address %s: %v", s, err)
	}
	return addr, nil
}

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidScript, "amount %s", s)
	}
	return v, nil
}

func textOrHex(s string) []byte {
	if s == "" {
		return nil
	}
	if b, err := hexutil.Decode(s); err == nil {
		return b
	}
	return []byte(s)
}
