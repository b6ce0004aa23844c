// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package bns

import (
	"fmt"

	"github.com/pkg/errors"
)

// Category classifies a failure of a naming operation
type Category int

// categories of naming failures
const (
	CommitmentInvalid Category = iota + 1
	Unauthorized
	UnauthorizedImporter
	NamespaceStateError
	InsufficientPayment
	NotFound
	ArithmeticOverflow
	InvalidArgument
	AlreadyExists
)

var _categoryNames = map[Category]string{
	CommitmentInvalid:    "CommitmentInvalid",
	Unauthorized:         "Unauthorized",
	UnauthorizedImporter: "UnauthorizedImporter",
	NamespaceStateError:  "NamespaceStateError",
	InsufficientPayment:  "InsufficientPayment",
	NotFound:             "NotFound",
	ArithmeticOverflow:   "ArithmeticOverflow",
	InvalidArgument:      "InvalidArgument",
	AlreadyExists:        "AlreadyExists",
}

func (c Category) String() string {
	if s, ok := _categoryNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Error is a failure of a naming operation. It is reported in the receipt by its code and never aborts the block.
type Error struct {
	Code     uint64
	Category Category
	msg      string
	cause    error
}

func newError(code uint64, category Category, msg string) *Error {
	return &Error{Code: code, Category: category, msg: msg}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s (%d): %s", e.msg, e.Code, e.cause.Error())
	}
	return fmt.Sprintf("%s (%d)", e.msg, e.Code)
}

// Is reports whether target is the same kind of failure
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code && t.Category == e.Category
}

// Unwrap returns the reason of the failure
func (e *Error) Unwrap() error { return e.cause }

// wrap attaches the reason of the failure
func (e *Error) wrap(cause error) error {
	return &Error{Code: e.Code, Category: e.Category, msg: e.msg, cause: cause}
}

// wrapf attaches a formatted reason of the failure
func (e *Error) wrapf(format string, args ...interface{}) error {
	return e.wrap(errors.Errorf(format, args...))
}

// CodeOf returns the code of a naming failure in the chain of err
func CodeOf(err error) (uint64, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}

// CategoryOf returns the category of a naming failure in the chain of err
func CategoryOf(err error) (Category, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Category, true
	}
	return 0, false
}

// namespace failures
var (
	ErrNamespacePreorderNotFound      = newError(1001, CommitmentInvalid, "namespace preorder not found")
	ErrNamespacePreorderAlreadyExists = newError(1003, AlreadyExists, "namespace preorder already exists")
	ErrNamespaceNotFound              = newError(1005, NotFound, "namespace not found")
	ErrNamespaceAlreadyExists         = newError(1006, AlreadyExists, "namespace already exists")
	ErrNamespaceNotLaunched           = newError(1007, NamespaceStateError, "namespace not launched")
	ErrNamespacePriceFunctionInvalid  = newError(1008, InvalidArgument, "namespace price function invalid")
	ErrNamespaceLaunchabilityExpired  = newError(1010, NamespaceStateError, "namespace launchability expired")
	ErrNamespaceOperationUnauthorized = newError(1011, Unauthorized, "namespace operation unauthorized")
	ErrNamespaceUnauthorizedImporter  = newError(1011, UnauthorizedImporter, "namespace importer unauthorized")
	ErrNamespaceBurnInsufficient      = newError(1012, InsufficientPayment, "namespace burn insufficient")
	ErrNamespaceBlank                 = newError(1013, InvalidArgument, "namespace blank")
	ErrNamespaceAlreadyLaunched       = newError(1014, NamespaceStateError, "namespace already launched")
	ErrNamespaceHashMalformed         = newError(1015, InvalidArgument, "namespace hash malformed")
	ErrNamespaceCharsetInvalid        = newError(1016, InvalidArgument, "namespace charset invalid")
	ErrNamespacePriceFrozen           = newError(1017, NamespaceStateError, "namespace price function frozen")
)

// name failures
var (
	ErrNamePreorderNotFound      = newError(2001, CommitmentInvalid, "name preorder not found")
	ErrNameUnavailable           = newError(2004, AlreadyExists, "name unavailable")
	ErrNameOperationUnauthorized = newError(2006, Unauthorized, "name operation unauthorized")
	ErrNameBurnInsufficient      = newError(2007, InsufficientPayment, "name burn insufficient")
	ErrNameExpired               = newError(2008, NotFound, "name expired")
	ErrNameGracePeriod           = newError(2009, AlreadyExists, "name in grace period")
	ErrNameBlank                 = newError(2010, InvalidArgument, "name blank")
	ErrNameNotFound              = newError(2013, NotFound, "name not found")
	ErrNameRevoked               = newError(2014, NotFound, "name revoked")
	ErrNamePreorderAlreadyExists = newError(2016, AlreadyExists, "name preorder already exists")
	ErrNameHashMalformed         = newError(2017, InvalidArgument, "name hash malformed")
	ErrNameCharsetInvalid        = newError(2022, InvalidArgument, "name charset invalid")
)

// ledger failures
var (
	ErrArithmeticOverflow = newError(3001, ArithmeticOverflow, "arithmetic overflow")
	ErrInsufficientFunds  = newError(4001, InsufficientPayment, "insufficient funds")
)

// reasons a commitment cannot be consumed
var (
	ErrCommitmentNotFound = errors.New("commitment not found")
	ErrCommitmentExpired  = errors.New("commitment expired")
	ErrCommitmentClaimed  = errors.New("commitment already claimed")
)
