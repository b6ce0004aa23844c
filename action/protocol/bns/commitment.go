// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package bns

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-bns/action/protocol"
	"github.com/iotexproject/iotex-bns/state"
)

const (
	// NamespaceCommitmentNamespace is the namespace to store namespace preorders
	NamespaceCommitmentNamespace = "BNSNamespaceCommitment"
	// NameCommitmentNamespace is the namespace to store name preorders
	NameCommitmentNamespace = "BNSNameCommitment"
)

type (
	// Commitment is a preorder of a namespace or a name, keyed by the hash of the identifier and a salt
	Commitment struct {
		Hash hash.Hash160
		// Owner is the principal who preordered
		Owner address.Address
		// Namespace is the disclosed namespace of a name preorder, empty for namespace preorders
		Namespace string
		Burned    *big.Int
		CreatedAt uint64
		ExpiresAt uint64
		Claimed   bool
	}

	commitmentRLP struct {
		Hash      []byte
		Owner     []byte
		Namespace string
		Burned    *big.Int
		CreatedAt uint64
		ExpiresAt uint64
		Claimed   bool
	}

	// commitKind binds the commit store to the keyspace and failures of namespace or name preorders
	commitKind struct {
		namespace    string
		invalid      *Error
		unauthorized *Error
		exists       *Error
		malformed    *Error
	}
)

var (
	namespaceCommits = commitKind{
		namespace:    NamespaceCommitmentNamespace,
		invalid:      ErrNamespacePreorderNotFound,
		unauthorized: ErrNamespaceOperationUnauthorized,
		exists:       ErrNamespacePreorderAlreadyExists,
		malformed:    ErrNamespaceHashMalformed,
	}
	nameCommits = commitKind{
		namespace:    NameCommitmentNamespace,
		invalid:      ErrNamePreorderNotFound,
		unauthorized: ErrNameOperationUnauthorized,
		exists:       ErrNamePreorderAlreadyExists,
		malformed:    ErrNameHashMalformed,
	}
)

// NamespaceCommitment returns the hash a client preorders namespace ns with
func NamespaceCommitment(ns string, salt []byte) hash.Hash160 {
	return commitmentHash(ns, salt)
}

// NameCommitment returns the hash a client preorders name in namespace ns with
func NameCommitment(name, ns string, salt []byte) hash.Hash160 {
	return commitmentHash(FullyQualifiedName(name, ns), salt)
}

// FullyQualifiedName returns name.namespace
func FullyQualifiedName(name, ns string) string {
	return name + "." + ns
}

func commitmentHash(identifier string, salt []byte) hash.Hash160 {
	if salt == nil {
		salt = []byte{}
	}
	// rlp never fails on a string and a byte slice
	b, _ := rlp.EncodeToBytes([]interface{}{identifier, salt})
	return hash.Hash160b(b)
}

// Live returns whether the commitment still blocks its hash at height
func (c *Commitment) Live(height uint64) bool {
	return !c.Claimed && height < c.ExpiresAt
}

// Serialize serializes commitment into bytes
func (c *Commitment) Serialize() ([]byte, error) {
	b, err := rlp.EncodeToBytes(&commitmentRLP{
		Hash:      c.Hash[:],
		Owner:     addrBytes(c.Owner),
		Namespace: c.Namespace,
		Burned:    bigOrZero(c.Burned),
		CreatedAt: c.CreatedAt,
		ExpiresAt: c.ExpiresAt,
		Claimed:   c.Claimed,
	})
	if err != nil {
		return nil, errors.Wrap(state.ErrStateSerialization, err.Error())
	}
	return b, nil
}

// Deserialize deserializes bytes into commitment
func (c *Commitment) Deserialize(buf []byte) error {
	var r commitmentRLP
	if err := rlp.DecodeBytes(buf, &r); err != nil {
		return errors.Wrap(state.ErrStateDeserialization, err.Error())
	}
	owner, err := bytesAddr(r.Owner)
	if err != nil {
		return err
	}
	c.Hash = hash.BytesToHash160(r.Hash)
	c.Owner = owner
	c.Namespace = r.Namespace
	c.Burned = bigOrZero(r.Burned)
	c.CreatedAt = r.CreatedAt
	c.ExpiresAt = r.ExpiresAt
	c.Claimed = r.Claimed
	return nil
}

func toHash160(b []byte, kind commitKind) (hash.Hash160, error) {
	if len(b) != len(hash.ZeroHash160) {
		return hash.ZeroHash160, kind.malformed.wrapf("commitment length %d", len(b))
	}
	return hash.BytesToHash160(b), nil
}

func loadCommitment(sr protocol.StateReader, kind commitKind, h hash.Hash160) (*Commitment, error) {
	var c Commitment
	if _, err := sr.State(&c, protocol.NamespaceOption(kind.namespace), protocol.KeyOption(h[:])); err != nil {
		return nil, err
	}
	return &c, nil
}

func putCommitment(sm protocol.StateManager, kind commitKind, c *Commitment) error {
	_, err := sm.PutState(c, protocol.NamespaceOption(kind.namespace), protocol.KeyOption(c.Hash[:]))
	return err
}

// checkCommitmentFree fails if a live commitment holds h at height
func checkCommitmentFree(sr protocol.StateReader, kind commitKind, h hash.Hash160, height uint64) error {
	c, err := loadCommitment(sr, kind, h)
	switch errors.Cause(err) {
	case nil:
		if c.Live(height) {
			return kind.exists.wrapf("commitment %x expires at %d", h, c.ExpiresAt)
		}
		return nil
	case state.ErrStateNotExist:
		return nil
	default:
		return err
	}
}

// commit stores a fresh commitment and returns its expiry height. An expired or claimed commitment of the same hash is
// overwritten.
func commit(
	sm protocol.StateManager,
	kind commitKind,
	h hash.Hash160,
	owner address.Address,
	namespace string,
	burn *big.Int,
	height, ttl uint64,
) (uint64, error) {
	if err := checkCommitmentFree(sm, kind, h, height); err != nil {
		return 0, err
	}
	expiry := height + ttl
	if expiry < height {
		return 0, ErrArithmeticOverflow.wrapf("%d+%d", height, ttl)
	}
	c := &Commitment{
		Hash:      h,
		Owner:     owner,
		Namespace: namespace,
		Burned:    new(big.Int).Set(burn),
		CreatedAt: height,
		ExpiresAt: expiry,
	}
	if err := putCommitment(sm, kind, c); err != nil {
		return 0, err
	}
	return expiry, nil
}

// consume looks up the commitment of h for principal. The returned commitment is marked claimed, and it is up to the
// caller to store it once its own checks pass.
func consume(
	sr protocol.StateReader,
	kind commitKind,
	h hash.Hash160,
	principal address.Address,
	height uint64,
) (*Commitment, error) {
	c, err := loadCommitment(sr, kind, h)
	switch errors.Cause(err) {
	case nil:
	case state.ErrStateNotExist:
		return nil, kind.invalid.wrap(errors.Wrapf(ErrCommitmentNotFound, "hash %x", h))
	default:
		return nil, err
	}
	if c.Claimed {
		return nil, kind.invalid.wrap(errors.Wrapf(ErrCommitmentClaimed, "hash %x", h))
	}
	if height >= c.ExpiresAt {
		return nil, kind.invalid.wrap(errors.Wrapf(ErrCommitmentExpired, "hash %x expired at %d", h, c.ExpiresAt))
	}
	if err := requireOwner(c.Owner, principal, kind.unauthorized); err != nil {
		return nil, err
	}
	c.Claimed = true
	return c, nil
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}

func addrBytes(addr address.Address) []byte {
	if addr == nil {
		return []byte{}
	}
	return addr.Bytes()
}

func bytesAddr(b []byte) (address.Address, error) {
	if len(b) == 0 {
		return nil, nil
	}
	addr, err := address.FromBytes(b)
	if err != nil {
		return nil, errors.Wrap(state.ErrStateDeserialization, err.Error())
	}
	return addr, nil
}
