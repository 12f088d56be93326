// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tally

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"alice", false},
		{"tally.voters", false},
		{"a1b2c3d4e5", false},
		{"toolongname12x", true},
		{"Alice", true},
		{"bob6", true},
		{"bob.", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := ParseName(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.in, n.String())
		})
	}
}

func TestNameOrdering(t *testing.T) {
	a := MustParseName("alice")
	b := MustParseName("bob")
	ab := MustParseName("alice.b")
	assert.True(t, a < b)
	assert.True(t, a < ab)
	assert.True(t, ab < b)

	assert.True(t, Names{a, ab, b}.IsSortedUnique())
	assert.False(t, Names{a, a}.IsSortedUnique())
	assert.False(t, Names{b, a}.IsSortedUnique())
	assert.True(t, Names{a, b}.Contains(b))
}

func TestNameJSON(t *testing.T) {
	n := MustParseName("producer1")
	data, err := json.Marshal(&n)
	assert.NoError(t, err)
	assert.Equal(t, `"producer1"`, string(data))

	var decoded Name
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, n, decoded)
	assert.Error(t, json.Unmarshal([]byte(`"BAD"`), &decoded))
}

func TestTimePoint(t *testing.T) {
	tp := TimePoint(10 * Second)
	assert.Equal(t, uint64(0), tp.Since(tp+1))
	assert.Equal(t, uint64(Second), (tp + Second).Since(tp))
	assert.Equal(t, 1.5, (tp + 1500*Millisecond).SecondsSince(tp))
	assert.Equal(t, tp, NewTimePoint(tp.Time()))
}

func TestBlake2b(t *testing.T) {
	assert.Equal(t, Blake2b([]byte("ab")), Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("a")), Blake2b([]byte("b")))
	b := BytesToBytes32([]byte{1})
	assert.Equal(t, byte(1), b[31])
	parsed, err := ParseBytes32(b.String())
	assert.NoError(t, err)
	assert.Equal(t, b, parsed)
}
