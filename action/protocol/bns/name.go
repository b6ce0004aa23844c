// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package bns

import (
	"context"
	"math"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-bns/action"
	"github.com/iotexproject/iotex-bns/action/protocol"
	"github.com/iotexproject/iotex-bns/pkg/log"
	"github.com/iotexproject/iotex-bns/state"
)

const (
	// NameNamespace is the namespace to store names
	NameNamespace = "BNSName"
	// NeverExpires is the expiry height of names without lease
	NeverExpires = uint64(math.MaxUint64)
)

type (
	// Name is a name registered or imported in a namespace
	Name struct {
		Namespace    string
		Name         string
		Owner        address.Address
		ZonefileHash []byte
		// Imported is set for names created by the importer before launch
		Imported       bool
		LeaseStartedAt uint64
		Revoked        bool
		// RevealedAt is the reveal height of the namespace the name was created under
		RevealedAt uint64
	}

	nameRLP struct {
		Namespace      string
		Name           string
		Owner          []byte
		ZonefileHash   []byte
		Imported       bool
		LeaseStartedAt uint64
		Revoked        bool
		RevealedAt     uint64
	}
)

// Serialize serializes name into bytes
func (n *Name) Serialize() ([]byte, error) {
	zonefile := n.ZonefileHash
	if zonefile == nil {
		zonefile = []byte{}
	}
	b, err := rlp.EncodeToBytes(&nameRLP{
		Namespace:      n.Namespace,
		Name:           n.Name,
		Owner:          addrBytes(n.Owner),
		ZonefileHash:   zonefile,
		Imported:       n.Imported,
		LeaseStartedAt: n.LeaseStartedAt,
		Revoked:        n.Revoked,
		RevealedAt:     n.RevealedAt,
	})
	if err != nil {
		return nil, errors.Wrap(state.ErrStateSerialization, err.Error())
	}
	return b, nil
}

// Deserialize deserializes bytes into name
func (n *Name) Deserialize(buf []byte) error {
	var r nameRLP
	if err := rlp.DecodeBytes(buf, &r); err != nil {
		return errors.Wrap(state.ErrStateDeserialization, err.Error())
	}
	owner, err := bytesAddr(r.Owner)
	if err != nil {
		return err
	}
	n.Namespace = r.Namespace
	n.Name = r.Name
	n.Owner = owner
	n.ZonefileHash = r.ZonefileHash
	n.Imported = r.Imported
	n.LeaseStartedAt = r.LeaseStartedAt
	n.Revoked = r.Revoked
	n.RevealedAt = r.RevealedAt
	return nil
}

// ExpiresAt returns the first height at which the name is expired. The lease of an imported name starts when its
// namespace launches.
func (n *Name) ExpiresAt(ns *Namespace) uint64 {
	if ns.Lifetime == 0 {
		return NeverExpires
	}
	start := n.LeaseStartedAt
	if n.Imported {
		if !ns.Launched {
			return NeverExpires
		}
		if start < ns.LaunchedAt {
			start = ns.LaunchedAt
		}
	}
	end := start + ns.Lifetime
	if end < start {
		return NeverExpires
	}
	return end
}

// Expired returns whether the lease is over at height
func (n *Name) Expired(ns *Namespace, height uint64) bool {
	return height >= n.ExpiresAt(ns)
}

// PastGracePeriod returns whether the lease is over and cannot be renewed anymore at height
func (n *Name) PastGracePeriod(ns *Namespace, height, grace uint64) bool {
	expiry := n.ExpiresAt(ns)
	if expiry == NeverExpires {
		return false
	}
	end := expiry + grace
	if end < expiry {
		return false
	}
	return height >= end
}

func nameKey(ns, name string) []byte {
	return []byte(FullyQualifiedName(name, ns))
}

func putName(sm protocol.StateManager, n *Name) error {
	_, err := sm.PutState(n, protocol.NamespaceOption(NameNamespace), protocol.KeyOption(nameKey(n.Namespace, n.Name)))
	return err
}

// loadName loads name of namespace ns. Names left over from an abandoned reveal of ns do not exist.
func loadName(sr protocol.StateReader, ns *Namespace, name string) (*Name, error) {
	var n Name
	if _, err := sr.State(&n, protocol.NamespaceOption(NameNamespace), protocol.KeyOption(nameKey(ns.ID, name))); err != nil {
		return nil, err
	}
	if n.RevealedAt != ns.RevealedAt {
		return nil, errors.Wrapf(state.ErrStateNotExist, "name %q belongs to the reveal at %d", name, n.RevealedAt)
	}
	return &n, nil
}

// name loads name with its namespace, failing with ErrNameNotFound if it does not exist
func (p *Protocol) name(sr protocol.StateReader, nsID, name string) (*Name, *Namespace, error) {
	ns, err := p.namespace(sr, nsID)
	if err != nil {
		return nil, nil, err
	}
	n, err := loadName(sr, ns, name)
	switch errors.Cause(err) {
	case nil:
	case state.ErrStateNotExist:
		return nil, nil, ErrNameNotFound.wrapf("name %q", FullyQualifiedName(name, nsID))
	default:
		return nil, nil, err
	}
	return n, ns, nil
}

// ownedName loads a name for its owner in a launched namespace
func (p *Protocol) ownedName(sr protocol.StateReader, nsID, name string, caller address.Address) (*Name, *Namespace, error) {
	n, ns, err := p.name(sr, nsID, name)
	if err != nil {
		return nil, nil, err
	}
	if err := requireOwner(n.Owner, caller, ErrNameOperationUnauthorized); err != nil {
		return nil, nil, err
	}
	if !ns.Launched {
		return nil, nil, ErrNamespaceNotLaunched.wrapf("namespace %q", ns.ID)
	}
	return n, ns, nil
}

// activeName is ownedName, also requiring the name to be neither expired nor revoked
func (p *Protocol) activeName(sr protocol.StateReader, nsID, name string, caller address.Address, height uint64) (*Name, *Namespace, error) {
	n, ns, err := p.ownedName(sr, nsID, name, caller)
	if err != nil {
		return nil, nil, err
	}
	if n.Expired(ns, height) {
		return nil, nil, ErrNameExpired.wrapf("name %q expired at %d", FullyQualifiedName(name, nsID), n.ExpiresAt(ns))
	}
	if n.Revoked {
		return nil, nil, ErrNameRevoked.wrapf("name %q", FullyQualifiedName(name, nsID))
	}
	return n, ns, nil
}

// launchedNamespace loads a namespace that names can be preordered in
func (p *Protocol) launchedNamespace(sr protocol.StateReader, id string) (*Namespace, error) {
	ns, err := p.namespace(sr, id)
	if err != nil {
		return nil, err
	}
	if !ns.Launched {
		return nil, ErrNamespaceNotLaunched.wrapf("namespace %q", id)
	}
	return ns, nil
}

// checkSlot fails unless name can be registered at height
func (p *Protocol) checkSlot(sr protocol.StateReader, ns *Namespace, name string, height uint64) error {
	n, err := loadName(sr, ns, name)
	switch errors.Cause(err) {
	case nil:
	case state.ErrStateNotExist:
		return nil
	default:
		return err
	}
	fqn := FullyQualifiedName(name, ns.ID)
	if !n.Expired(ns, height) {
		return ErrNameUnavailable.wrapf("name %q is taken", fqn)
	}
	if !n.PastGracePeriod(ns, height, p.cfg.NameGracePeriod) {
		return ErrNameGracePeriod.wrapf("name %q can be renewed by its owner until %d", fqn, n.ExpiresAt(ns)+p.cfg.NameGracePeriod)
	}
	return nil
}

func (p *Protocol) namePreorder(ctx context.Context, sm protocol.StateManager, act *action.NamePreorder) (uint64, error) {
	caller, height := callerAndHeight(ctx)
	if _, err := p.launchedNamespace(sm, act.Namespace()); err != nil {
		return 0, err
	}
	h, err := toHash160(act.Commitment(), nameCommits)
	if err != nil {
		return 0, err
	}
	if act.Burn().Sign() <= 0 {
		return 0, ErrNameBurnInsufficient.wrapf("nothing burned")
	}
	if err := checkCommitmentFree(sm, nameCommits, h, height); err != nil {
		return 0, err
	}
	if err := p.burn(sm, caller, act.Burn()); err != nil {
		return 0, err
	}
	return commit(sm, nameCommits, h, caller, act.Namespace(), act.Burn(), height, p.cfg.NamePreorderTTL)
}

func (p *Protocol) nameRegister(ctx context.Context, sm protocol.StateManager, act *action.NameRegister) (bool, error) {
	caller, height := callerAndHeight(ctx)
	ns, err := p.launchedNamespace(sm, act.Namespace())
	if err != nil {
		return false, err
	}
	if err := p.validateName(act.Name()); err != nil {
		return false, err
	}
	if len(act.Salt()) < p.cfg.MinSaltLength {
		return false, ErrNameHashMalformed.wrapf("salt shorter than %d", p.cfg.MinSaltLength)
	}
	c, err := consume(sm, nameCommits, NameCommitment(act.Name(), ns.ID, act.Salt()), caller, height)
	if err != nil {
		return false, err
	}
	if c.Namespace != ns.ID {
		return false, ErrNamePreorderNotFound.wrapf("preorder is for namespace %q", c.Namespace)
	}
	if err := p.checkSlot(sm, ns, act.Name(), height); err != nil {
		return false, err
	}
	price, err := namePrice(ns.PriceFunction, act.Name(), p.cfg.MinNamePrice)
	if err != nil {
		return false, err
	}
	if c.Burned.Cmp(price) < 0 {
		return false, ErrNameBurnInsufficient.wrapf("burned %s, price %s", c.Burned, price)
	}
	if err := putCommitment(sm, nameCommits, c); err != nil {
		return false, err
	}
	if err := putName(sm, &Name{
		Namespace:      ns.ID,
		Name:           act.Name(),
		Owner:          caller,
		ZonefileHash:   act.ZonefileHash(),
		LeaseStartedAt: height,
		RevealedAt:     ns.RevealedAt,
	}); err != nil {
		return false, err
	}
	log.L().Debug("Name registered.",
		zap.String("name", FullyQualifiedName(act.Name(), ns.ID)),
		zap.String("owner", caller.String()),
	)
	return true, nil
}

func (p *Protocol) nameUpdate(ctx context.Context, sm protocol.StateManager, act *action.NameUpdate) (bool, error) {
	caller, height := callerAndHeight(ctx)
	n, _, err := p.activeName(sm, act.Namespace(), act.Name(), caller, height)
	if err != nil {
		return false, err
	}
	n.ZonefileHash = act.ZonefileHash()
	if err := putName(sm, n); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Protocol) nameRenew(ctx context.Context, sm protocol.StateManager, act *action.NameRenew) (bool, error) {
	caller, height := callerAndHeight(ctx)
	n, ns, err := p.ownedName(sm, act.Namespace(), act.Name(), caller)
	if err != nil {
		return false, err
	}
	fqn := FullyQualifiedName(act.Name(), act.Namespace())
	if n.PastGracePeriod(ns, height, p.cfg.NameGracePeriod) {
		return false, ErrNameExpired.wrapf("name %q expired at %d", fqn, n.ExpiresAt(ns))
	}
	if n.Revoked {
		return false, ErrNameRevoked.wrapf("name %q", fqn)
	}
	price, err := namePrice(ns.PriceFunction, n.Name, p.cfg.MinNamePrice)
	if err != nil {
		return false, err
	}
	if act.Payment().Cmp(price) < 0 {
		return false, ErrNameBurnInsufficient.wrapf("paid %s, price %s", act.Payment(), price)
	}
	if err := p.burn(sm, caller, act.Payment()); err != nil {
		return false, err
	}
	if expiry := n.ExpiresAt(ns); expiry != NeverExpires {
		// the new lease is appended to the current one, or starts now once lapsed
		start := expiry
		if height > start {
			start = height
		}
		n.LeaseStartedAt = start
	}
	if err := putName(sm, n); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Protocol) nameTransfer(ctx context.Context, sm protocol.StateManager, act *action.NameTransfer) (bool, error) {
	caller, height := callerAndHeight(ctx)
	n, _, err := p.activeName(sm, act.Namespace(), act.Name(), caller, height)
	if err != nil {
		return false, err
	}
	n.Owner = act.NewOwner()
	if act.ClearZonefile() {
		n.ZonefileHash = nil
	}
	if err := putName(sm, n); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Protocol) nameRevoke(ctx context.Context, sm protocol.StateManager, act *action.NameRevoke) (bool, error) {
	caller, height := callerAndHeight(ctx)
	n, _, err := p.activeName(sm, act.Namespace(), act.Name(), caller, height)
	if err != nil {
		return false, err
	}
	n.Revoked = true
	n.ZonefileHash = nil
	if err := putName(sm, n); err != nil {
		return false, err
	}
	return true, nil
}
