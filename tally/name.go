// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tally

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"strings"
)

const (
	// MaxNameLength is the maximum number of characters of an account name.
	MaxNameLength = 12

	nameCharset = ".12345abcdefghijklmnopqrstuvwxyz"
)

// Name identifies an account. It packs up to 12 characters of [.1-5a-z] into 64 bits,
// so that numeric ordering of names equals the lexical ordering of their string form.
type Name uint64

var (
	_ json.Marshaler   = (*Name)(nil)
	_ json.Unmarshaler = (*Name)(nil)
)

func charToSymbol(c byte) (uint64, bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 6, true
	case c >= '1' && c <= '5':
		return uint64(c-'1') + 1, true
	case c == '.':
		return 0, true
	}
	return 0, false
}

// ParseName converts string presented name into Name type.
func ParseName(s string) (Name, error) {
	if len(s) > MaxNameLength {
		return 0, errors.New("name too long")
	}
	if strings.HasSuffix(s, ".") {
		return 0, errors.New("name must not end with '.'")
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		sym, ok := charToSymbol(s[i])
		if !ok {
			return 0, errors.New("invalid character in name")
		}
		v |= sym << (64 - 5*(i+1))
	}
	return Name(v), nil
}

// MustParseName converts string presented name into Name type, panic on error.
func MustParseName(s string) Name {
	n, err := ParseName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// String implements the stringer interface.
func (n Name) String() string {
	var b [MaxNameLength]byte
	for i := range b {
		b[i] = nameCharset[(uint64(n)>>(64-5*(i+1)))&0x1f]
	}
	return strings.TrimRight(string(b[:]), ".")
}

// Bytes returns the 8-byte big endian form, usable as an ordered storage key.
func (n Name) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(n))
	return b[:]
}

// IsEmpty returns whether the name is the empty name.
func (n Name) IsEmpty() bool {
	return n == 0
}

// MarshalJSON implements json.Marshaler.
func (n Name) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Name) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseName(s)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// Names is a list of names.
type Names []Name

// IsSortedUnique returns whether names are in strictly ascending order.
func (ns Names) IsSortedUnique() bool {
	for i := 1; i < len(ns); i++ {
		if ns[i-1] >= ns[i] {
			return false
		}
	}
	return true
}

// Contains reports whether n is in the list.
func (ns Names) Contains(n Name) bool {
	for _, x := range ns {
		if x == n {
			return true
		}
	}
	return false
}
