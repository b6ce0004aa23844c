// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package bns

import (
	"context"
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-bns/action/protocol"
)

// methods served by ReadState
const (
	_methodResolve             = "Resolve"
	_methodNamePrice           = "NamePrice"
	_methodNamespacePrice      = "NamespacePrice"
	_methodCanNameBeRegistered = "CanNameBeRegistered"
	_methodNameProperties      = "NameProperties"
	_methodNamespaceProperties = "NamespaceProperties"
)

// Resolve returns the zonefile hash of name in namespace ns at the tip of sr. Imported names resolve before their
// namespace launches.
func (p *Protocol) Resolve(sr protocol.StateReader, ns, name string) ([]byte, error) {
	height, err := sr.Height()
	if err != nil {
		return nil, err
	}
	if _, err := p.namespace(sr, ns); err != nil {
		return nil, err
	}
	n, namespace, err := p.name(sr, ns, name)
	if err != nil {
		return nil, err
	}
	fqn := FullyQualifiedName(name, ns)
	if n.Revoked {
		return nil, ErrNameRevoked.wrapf("name %q", fqn)
	}
	if n.Expired(namespace, height) {
		return nil, ErrNameExpired.wrapf("name %q expired at %d", fqn, n.ExpiresAt(namespace))
	}
	return n.ZonefileHash, nil
}

// NamePrice returns the registration and renewal price of name in namespace ns
func (p *Protocol) NamePrice(sr protocol.StateReader, ns, name string) (*big.Int, error) {
	namespace, err := p.namespace(sr, ns)
	if err != nil {
		return nil, err
	}
	if err := p.validateName(name); err != nil {
		return nil, err
	}
	return namePrice(namespace.PriceFunction, name, p.cfg.MinNamePrice)
}

// NamespacePrice returns the amount a namespace preorder has to burn for ns
func (p *Protocol) NamespacePrice(ns string) (*big.Int, error) {
	if err := p.validateNamespaceID(ns); err != nil {
		return nil, err
	}
	return p.cfg.NamespacePrice(len(ns)), nil
}

// CanNameBeRegistered returns whether name in namespace ns is free for registration at the tip of sr
func (p *Protocol) CanNameBeRegistered(sr protocol.StateReader, ns, name string) (bool, error) {
	height, err := sr.Height()
	if err != nil {
		return false, err
	}
	namespace, err := p.launchedNamespace(sr, ns)
	if err != nil {
		return false, err
	}
	if err := p.validateName(name); err != nil {
		return false, err
	}
	if err := p.checkSlot(sr, namespace, name, height); err != nil {
		if _, ok := CodeOf(err); ok {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NameProperties returns the record of name in namespace ns and its expiry height
func (p *Protocol) NameProperties(sr protocol.StateReader, ns, name string) (*Name, uint64, error) {
	n, namespace, err := p.name(sr, ns, name)
	if err != nil {
		return nil, 0, err
	}
	return n, n.ExpiresAt(namespace), nil
}

// NamespaceProperties returns the record of namespace ns
func (p *Protocol) NamespaceProperties(sr protocol.StateReader, ns string) (*Namespace, error) {
	return p.namespace(sr, ns)
}

// ReadState read the state on blockchain via protocol
func (p *Protocol) ReadState(
	ctx context.Context,
	sr protocol.StateReader,
	method []byte,
	args ...[]byte,
) ([]byte, error) {
	switch m := string(method); m {
	case _methodResolve:
		if err := checkArgs(m, args, 2); err != nil {
			return nil, err
		}
		return p.Resolve(sr, string(args[0]), string(args[1]))
	case _methodNamePrice:
		if err := checkArgs(m, args, 2); err != nil {
			return nil, err
		}
		price, err := p.NamePrice(sr, string(args[0]), string(args[1]))
		if err != nil {
			return nil, err
		}
		return []byte(price.String()), nil
	case _methodNamespacePrice:
		if err := checkArgs(m, args, 1); err != nil {
			return nil, err
		}
		price, err := p.NamespacePrice(string(args[0]))
		if err != nil {
			return nil, err
		}
		return []byte(price.String()), nil
	case _methodCanNameBeRegistered:
		if err := checkArgs(m, args, 2); err != nil {
			return nil, err
		}
		ok, err := p.CanNameBeRegistered(sr, string(args[0]), string(args[1]))
		if err != nil {
			return nil, err
		}
		return []byte(strconv.FormatBool(ok)), nil
	case _methodNameProperties:
		if err := checkArgs(m, args, 2); err != nil {
			return nil, err
		}
		n, _, err := p.NameProperties(sr, string(args[0]), string(args[1]))
		if err != nil {
			return nil, err
		}
		return n.Serialize()
	case _methodNamespaceProperties:
		if err := checkArgs(m, args, 1); err != nil {
			return nil, err
		}
		ns, err := p.NamespaceProperties(sr, string(args[0]))
		if err != nil {
			return nil, err
		}
		return ns.Serialize()
	default:
		return nil, errors.Errorf("unknown method %s", m)
	}
}

func checkArgs(method string, args [][]byte, n int) error {
	if len(args) != n {
		return errors.Errorf("%s expects %d arguments, got %d", method, n, len(args))
	}
	return nil
}
