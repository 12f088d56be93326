// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies why a transaction was reverted.
type Kind uint8

const (
	// Precondition violations will never succeed as submitted.
	Precondition Kind = iota
	// Temporal guard violations may succeed when retried later.
	Temporal
	// Integrity failures indicate corrupted or inconsistent state.
	Integrity
)

func (k Kind) String() string {
	switch k {
	case Precondition:
		return "precondition"
	case Temporal:
		return "temporal"
	case Integrity:
		return "integrity"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

type ErrRevert struct {
	kind    Kind
	message string
}

// New creates a precondition revert.
func New(message string) *ErrRevert {
	return &ErrRevert{
		kind:    Precondition,
		message: message,
	}
}

// Newf creates a precondition revert with a formatted message.
func Newf(format string, args ...any) *ErrRevert {
	return New(fmt.Sprintf(format, args...))
}

// NewTemporal creates a temporal revert.
func NewTemporal(message string) *ErrRevert {
	return &ErrRevert{kind: Temporal, message: message}
}

// NewIntegrity creates an integrity revert.
func NewIntegrity(format string, args ...any) *ErrRevert {
	return &ErrRevert{kind: Integrity, message: fmt.Sprintf(format, args...)}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func IsRevertErr(err any) bool {
	_, ok := KindOf(err)
	return ok
}

// KindOf returns the kind of a revert error in err's chain.
func KindOf(err any) (Kind, bool) {
	if err == nil {
		return 0, false
	}
	e, ok := err.(error)
	if !ok {
		return 0, false
	}
	var ve *ErrRevert
	if !errors.As(e, &ve) {
		return 0, false
	}
	return ve.kind, true
}

// IsTemporal returns whether err is a temporal revert.
func IsTemporal(err error) bool {
	k, ok := KindOf(err)
	return ok && k == Temporal
}

// IsIntegrity returns whether err is an integrity revert.
func IsIntegrity(err error) bool {
	k, ok := KindOf(err)
	return ok && k == Integrity
}
