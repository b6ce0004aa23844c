// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package bns

// byte classes of identifiers
const (
	classInvalid = iota
	classLetter
	classDigit
	classSpecial
)

func charClass(c byte) int {
	switch {
	case c >= 'a' && c <= 'z':
		return classLetter
	case c >= '0' && c <= '9':
		return classDigit
	case c == '-' || c == '_':
		return classSpecial
	default:
		return classInvalid
	}
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// validIdentifier returns false if s is longer than maxLen or has a byte outside of a-z 0-9 - _
func validIdentifier(s string, maxLen int) bool {
	if len(s) > maxLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if charClass(s[i]) == classInvalid {
			return false
		}
	}
	return true
}

func hasNonAlnum(s string) bool {
	for i := 0; i < len(s); i++ {
		if charClass(s[i]) == classSpecial {
			return true
		}
	}
	return false
}

func hasVowel(s string) bool {
	for i := 0; i < len(s); i++ {
		if isVowel(s[i]) {
			return true
		}
	}
	return false
}

func (p *Protocol) validateNamespaceID(ns string) error {
	if ns == "" {
		return ErrNamespaceBlank
	}
	if !validIdentifier(ns, p.cfg.MaxNamespaceLength) {
		return ErrNamespaceCharsetInvalid.wrapf("invalid namespace %q", ns)
	}
	return nil
}

func (p *Protocol) validateName(name string) error {
	if name == "" {
		return ErrNameBlank
	}
	if !validIdentifier(name, p.cfg.MaxNameLength) {
		return ErrNameCharsetInvalid.wrapf("invalid name %q", name)
	}
	return nil
}
