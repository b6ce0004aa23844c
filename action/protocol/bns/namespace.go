// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package bns

import (
	"context"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-bns/action"
	"github.com/iotexproject/iotex-bns/action/protocol"
	"github.com/iotexproject/iotex-bns/pkg/log"
	"github.com/iotexproject/iotex-bns/state"
)

// NamespaceNamespace is the namespace to store revealed namespaces
const NamespaceNamespace = "BNSNamespace"

type (
	// Namespace is a revealed namespace
	Namespace struct {
		ID string
		// Owner is the principal who revealed the namespace, and the only one who can launch it
		Owner address.Address
		// Importer is the principal who can import names before launch
		Importer      address.Address
		PriceFunction action.PriceFunction
		// Lifetime is the lease length of names in blocks, 0 means names never expire
		Lifetime        uint64
		RevealedAt      uint64
		ImportWindowEnd uint64
		Launched        bool
		LaunchedAt      uint64
		PriceFrozen     bool
	}

	namespaceRLP struct {
		ID               string
		Owner            []byte
		Importer         []byte
		Buckets          []uint64
		Base             uint64
		Coeff            uint64
		NonAlphaDiscount uint64
		NoVowelDiscount  uint64
		Lifetime         uint64
		RevealedAt       uint64
		ImportWindowEnd  uint64
		Launched         bool
		LaunchedAt       uint64
		PriceFrozen      bool
	}
)

// Serialize serializes namespace into bytes
func (ns *Namespace) Serialize() ([]byte, error) {
	pf := ns.PriceFunction
	b, err := rlp.EncodeToBytes(&namespaceRLP{
		ID:               ns.ID,
		Owner:            addrBytes(ns.Owner),
		Importer:         addrBytes(ns.Importer),
		Buckets:          pf.Buckets[:],
		Base:             pf.Base,
		Coeff:            pf.Coeff,
		NonAlphaDiscount: pf.NonAlphaDiscount,
		NoVowelDiscount:  pf.NoVowelDiscount,
		Lifetime:         ns.Lifetime,
		RevealedAt:       ns.RevealedAt,
		ImportWindowEnd:  ns.ImportWindowEnd,
		Launched:         ns.Launched,
		LaunchedAt:       ns.LaunchedAt,
		PriceFrozen:      ns.PriceFrozen,
	})
	if err != nil {
		return nil, errors.Wrap(state.ErrStateSerialization, err.Error())
	}
	return b, nil
}

// Deserialize deserializes bytes into namespace
func (ns *Namespace) Deserialize(buf []byte) error {
	var r namespaceRLP
	if err := rlp.DecodeBytes(buf, &r); err != nil {
		return errors.Wrap(state.ErrStateDeserialization, err.Error())
	}
	if len(r.Buckets) != action.PriceBuckets {
		return errors.Wrapf(state.ErrStateDeserialization, "expect %d buckets, got %d", action.PriceBuckets, len(r.Buckets))
	}
	owner, err := bytesAddr(r.Owner)
	if err != nil {
		return err
	}
	importer, err := bytesAddr(r.Importer)
	if err != nil {
		return err
	}
	ns.ID = r.ID
	ns.Owner = owner
	ns.Importer = importer
	copy(ns.PriceFunction.Buckets[:], r.Buckets)
	ns.PriceFunction.Base = r.Base
	ns.PriceFunction.Coeff = r.Coeff
	ns.PriceFunction.NonAlphaDiscount = r.NonAlphaDiscount
	ns.PriceFunction.NoVowelDiscount = r.NoVowelDiscount
	ns.Lifetime = r.Lifetime
	ns.RevealedAt = r.RevealedAt
	ns.ImportWindowEnd = r.ImportWindowEnd
	ns.Launched = r.Launched
	ns.LaunchedAt = r.LaunchedAt
	ns.PriceFrozen = r.PriceFrozen
	return nil
}

// InImportWindow returns whether names can still be imported and the namespace launched at height
func (ns *Namespace) InImportWindow(height uint64) bool {
	return !ns.Launched && height < ns.ImportWindowEnd
}

func putNamespace(sm protocol.StateManager, ns *Namespace) error {
	_, err := sm.PutState(ns, protocol.NamespaceOption(NamespaceNamespace), protocol.KeyOption([]byte(ns.ID)))
	return err
}

// namespace loads the namespace of id, failing with ErrNamespaceNotFound if it is not revealed
func (p *Protocol) namespace(sr protocol.StateReader, id string) (*Namespace, error) {
	var ns Namespace
	_, err := sr.State(&ns, protocol.NamespaceOption(NamespaceNamespace), protocol.KeyOption([]byte(id)))
	switch errors.Cause(err) {
	case nil:
		return &ns, nil
	case state.ErrStateNotExist:
		return nil, ErrNamespaceNotFound.wrapf("namespace %q", id)
	default:
		return nil, err
	}
}

// ownedNamespace loads the namespace of id, which has to be owned by caller and is not launched yet
func (p *Protocol) ownedNamespace(sr protocol.StateReader, id string, caller address.Address) (*Namespace, error) {
	ns, err := p.namespace(sr, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(ns.Owner, caller, ErrNamespaceOperationUnauthorized); err != nil {
		return nil, err
	}
	if ns.Launched {
		return nil, ErrNamespaceAlreadyLaunched.wrapf("namespace %q launched at %d", id, ns.LaunchedAt)
	}
	return ns, nil
}

func (p *Protocol) namespacePreorder(ctx context.Context, sm protocol.StateManager, act *action.NamespacePreorder) (uint64, error) {
	caller, height := callerAndHeight(ctx)
	h, err := toHash160(act.Commitment(), namespaceCommits)
	if err != nil {
		return 0, err
	}
	if act.Burn().Sign() <= 0 {
		return 0, ErrNamespaceBurnInsufficient.wrapf("nothing burned")
	}
	if err := checkCommitmentFree(sm, namespaceCommits, h, height); err != nil {
		return 0, err
	}
	if err := p.burn(sm, caller, act.Burn()); err != nil {
		return 0, err
	}
	return commit(sm, namespaceCommits, h, caller, "", act.Burn(), height, p.cfg.NamespacePreorderTTL)
}

func (p *Protocol) namespaceReveal(ctx context.Context, sm protocol.StateManager, act *action.NamespaceReveal) (bool, error) {
	caller, height := callerAndHeight(ctx)
	id := act.Namespace()
	if err := p.validateNamespaceID(id); err != nil {
		return false, err
	}
	if len(act.Salt()) < p.cfg.MinSaltLength {
		return false, ErrNamespaceHashMalformed.wrapf("salt shorter than %d", p.cfg.MinSaltLength)
	}
	if err := validatePriceFunction(act.PriceFunction(), p.cfg.MaxPriceExponent); err != nil {
		return false, err
	}
	existing, err := p.namespace(sm, id)
	switch {
	case err == nil:
		// an abandoned namespace can be revealed again once its window closes
		if existing.Launched || existing.InImportWindow(height) {
			return false, ErrNamespaceAlreadyExists.wrapf("namespace %q", id)
		}
	case !errors.Is(err, ErrNamespaceNotFound):
		return false, err
	}
	c, err := consume(sm, namespaceCommits, NamespaceCommitment(id, act.Salt()), caller, height)
	if err != nil {
		return false, err
	}
	if price := p.cfg.NamespacePrice(len(id)); c.Burned.Cmp(price) < 0 {
		return false, ErrNamespaceBurnInsufficient.wrapf("burned %s, price %s", c.Burned, price)
	}
	windowEnd := height + p.cfg.NamespaceLaunchabilityTTL
	if windowEnd < height {
		return false, ErrArithmeticOverflow.wrapf("%d+%d", height, p.cfg.NamespaceLaunchabilityTTL)
	}
	if err := putCommitment(sm, namespaceCommits, c); err != nil {
		return false, err
	}
	if err := putNamespace(sm, &Namespace{
		ID:              id,
		Owner:           caller,
		Importer:        act.Importer(),
		PriceFunction:   act.PriceFunction(),
		Lifetime:        act.Lifetime(),
		RevealedAt:      height,
		ImportWindowEnd: windowEnd,
	}); err != nil {
		return false, err
	}
	log.L().Debug("Namespace revealed.",
		zap.String("namespace", id),
		zap.String("importer", act.Importer().String()),
		zap.Uint64("importWindowEnd", windowEnd),
	)
	return true, nil
}

func (p *Protocol) nameImport(ctx context.Context, sm protocol.StateManager, act *action.NameImport) (bool, error) {
	caller, height := callerAndHeight(ctx)
	ns, err := p.namespace(sm, act.Namespace())
	if err != nil {
		return false, err
	}
	if err := requireImporter(ns, caller); err != nil {
		return false, err
	}
	if ns.Launched {
		return false, ErrNamespaceAlreadyLaunched.wrapf("namespace %q launched at %d", ns.ID, ns.LaunchedAt)
	}
	if !ns.InImportWindow(height) {
		return false, ErrNamespaceLaunchabilityExpired.wrapf("import window of %q closed at %d", ns.ID, ns.ImportWindowEnd)
	}
	if err := p.validateName(act.Name()); err != nil {
		return false, err
	}
	owner := act.Beneficiary()
	if owner == nil {
		owner = caller
	}
	if err := putName(sm, &Name{
		Namespace:      ns.ID,
		Name:           act.Name(),
		Owner:          owner,
		ZonefileHash:   act.ZonefileHash(),
		Imported:       true,
		LeaseStartedAt: height,
		RevealedAt:     ns.RevealedAt,
	}); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Protocol) namespaceReady(ctx context.Context, sm protocol.StateManager, act *action.NamespaceReady) (bool, error) {
	caller, height := callerAndHeight(ctx)
	ns, err := p.ownedNamespace(sm, act.Namespace(), caller)
	if err != nil {
		return false, err
	}
	if !ns.InImportWindow(height) {
		return false, ErrNamespaceLaunchabilityExpired.wrapf("namespace %q could launch until %d", ns.ID, ns.ImportWindowEnd)
	}
	ns.Launched = true
	ns.LaunchedAt = height
	if err := putNamespace(sm, ns); err != nil {
		return false, err
	}
	log.L().Info("Namespace launched.", zap.String("namespace", ns.ID), zap.Uint64("height", height))
	return true, nil
}

func (p *Protocol) namespaceUpdatePrice(ctx context.Context, sm protocol.StateManager, act *action.NamespaceUpdatePrice) (bool, error) {
	caller, _ := callerAndHeight(ctx)
	ns, err := p.ownedNamespace(sm, act.Namespace(), caller)
	if err != nil {
		return false, err
	}
	if ns.PriceFrozen {
		return false, ErrNamespacePriceFrozen.wrapf("namespace %q", ns.ID)
	}
	if err := validatePriceFunction(act.PriceFunction(), p.cfg.MaxPriceExponent); err != nil {
		return false, err
	}
	ns.PriceFunction = act.PriceFunction()
	if err := putNamespace(sm, ns); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Protocol) namespaceRevokePriceEdition(ctx context.Context, sm protocol.StateManager, act *action.NamespaceRevokePriceEdition) (bool, error) {
	caller, _ := callerAndHeight(ctx)
	ns, err := p.namespace(sm, act.Namespace())
	if err != nil {
		return false, err
	}
	if err := requireOwner(ns.Owner, caller, ErrNamespaceOperationUnauthorized); err != nil {
		return false, err
	}
	ns.PriceFrozen = true
	if err := putNamespace(sm, ns); err != nil {
		return false, err
	}
	return true, nil
}
