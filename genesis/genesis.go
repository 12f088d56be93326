// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes and builds the initial state of a network.
package genesis

import (
	"bytes"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/tally/builtin/system"
	"github.com/vechain/tally/state"
	"github.com/vechain/tally/tally"
)

// Genesis is the initial state of a network.
type Genesis struct {
	Name       string    `yaml:"name" json:"name"`
	Symbol     string    `yaml:"symbol" json:"symbol"`
	LaunchTime int64     `yaml:"launchTime" json:"launchTime"` // unix seconds, zero for the start time of the node
	Params     Params    `yaml:"params" json:"params"`
	Accounts   []Account `yaml:"accounts" json:"accounts"`
}

// Params overrides protocol parameters. Zero values keep the defaults.
type Params struct {
	RefundDelay        Duration `yaml:"refundDelay" json:"refundDelay"`
	ClaimCooldown      Duration `yaml:"claimCooldown" json:"claimCooldown"`
	VotepayThreshold   Duration `yaml:"votepayThreshold" json:"votepayThreshold"`
	ScheduleInterval   Duration `yaml:"scheduleInterval" json:"scheduleInterval"`
	ContinuousRate     float64  `yaml:"continuousRate" json:"continuousRate"`
	InflationPayFactor int64    `yaml:"inflationPayFactor" json:"inflationPayFactor"`
	VoterPayFactor     int64    `yaml:"voterPayFactor" json:"voterPayFactor"`
	VotepayFactor      int64    `yaml:"votepayFactor" json:"votepayFactor"`
	MinPervoteDailyPay *int64   `yaml:"minPervoteDailyPay" json:"minPervoteDailyPay"`
	MinActivatedStake  *int64   `yaml:"minActivatedStake" json:"minActivatedStake"`
}

// Account is an account funded at genesis.
type Account struct {
	Name     string    `yaml:"name" json:"name"`
	Balance  int64     `yaml:"balance" json:"balance"`
	Stake    int64     `yaml:"stake" json:"stake"` // self delegated out of Balance
	Producer *Producer `yaml:"producer,omitempty" json:"producer,omitempty"`
	IsProxy  bool      `yaml:"isProxy" json:"isProxy"`
	Proxy    string    `yaml:"proxy" json:"proxy"`
	Votes    []string  `yaml:"votes" json:"votes"`
}

// Producer registers the account as a producer candidate.
type Producer struct {
	Key      string `yaml:"key" json:"key"`
	URL      string `yaml:"url" json:"url"`
	Location uint16 `yaml:"location" json:"location"`
}

// Duration is a time.Duration written as a string like "72h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "line %d", value.Line)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) timePoint() tally.TimePoint {
	return tally.TimePoint(time.Duration(d) / time.Microsecond)
}

// Parse decodes a YAML genesis document. Unknown fields are rejected.
func Parse(data []byte) (*Genesis, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var g Genesis
	if err := dec.Decode(&g); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// Load reads a YAML genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

func (g *Genesis) validate() error {
	seen := make(map[tally.Name]bool)
	for _, a := range g.Accounts {
		name, err := tally.ParseName(a.Name)
		if err != nil {
			return errors.Wrapf(err, "account %q", a.Name)
		}
		if name.IsEmpty() {
			return errors.New("account name must be set")
		}
		if seen[name] {
			return errors.Errorf("account %v: duplicated", name)
		}
		seen[name] = true
		if a.Balance < 0 || a.Stake < 0 || a.Stake > a.Balance {
			return errors.Errorf("account %v: stake must be within balance", name)
		}
		if a.Proxy != "" && len(a.Votes) > 0 {
			return errors.Errorf("account %v: cannot vote for producers and proxy at same time", name)
		}
	}
	return nil
}

// ProtocolParams returns the protocol parameters with overrides applied.
func (g *Genesis) ProtocolParams() tally.Params {
	p := tally.Params{
		RefundDelay:        g.Params.RefundDelay.timePoint(),
		ClaimCooldown:      g.Params.ClaimCooldown.timePoint(),
		VotepayThreshold:   g.Params.VotepayThreshold.timePoint(),
		ScheduleInterval:   g.Params.ScheduleInterval.timePoint(),
		ContinuousRate:     g.Params.ContinuousRate,
		InflationPayFactor: g.Params.InflationPayFactor,
		VoterPayFactor:     g.Params.VoterPayFactor,
		VotepayFactor:      g.Params.VotepayFactor,
	}.WithDefaults()

	d := tally.DefaultParams()
	p.MinPervoteDailyPay = d.MinPervoteDailyPay
	if g.Params.MinPervoteDailyPay != nil {
		p.MinPervoteDailyPay = *g.Params.MinPervoteDailyPay
	}
	p.MinActivatedStake = d.MinActivatedStake
	if g.Params.MinActivatedStake != nil {
		p.MinActivatedStake = *g.Params.MinActivatedStake
	}
	return p
}

// Launch returns the genesis time, or fallback if no launch time is set.
func (g *Genesis) Launch(fallback tally.TimePoint) tally.TimePoint {
	if g.LaunchTime == 0 {
		return fallback
	}
	return tally.TimePoint(g.LaunchTime) * tally.Second
}

// ID identifies the genesis document.
func (g *Genesis) ID() tally.Bytes32 {
	data, err := yaml.Marshal(g)
	if err != nil {
		panic(err)
	}
	return tally.Blake2b(data)
}

// Build writes the genesis state into st at launch.
func (g *Genesis) Build(st *state.State, launch tally.TimePoint) error {
	if err := g.validate(); err != nil {
		return err
	}
	params := g.ProtocolParams()
	sys := system.New(st, &params)
	if err := sys.Initialize(launch); err != nil {
		return err
	}

	accounts := g.Accounts
	names := make([]tally.Name, len(accounts))
	for i, a := range accounts {
		names[i] = tally.MustParseName(a.Name)
	}

	for i, a := range accounts {
		if err := sys.Token().Issue(names[i], a.Balance, "genesis"); err != nil {
			return errors.Wrapf(err, "account %v", names[i])
		}
	}
	for i, a := range accounts {
		if a.Producer == nil {
			continue
		}
		if err := sys.RegProducer(names[i], a.Producer.Key, a.Producer.URL, a.Producer.Location, launch); err != nil {
			return errors.Wrapf(err, "register producer %v", names[i])
		}
	}
	for i, a := range accounts {
		if a.Stake == 0 {
			continue
		}
		net := a.Stake / 2
		if err := sys.Delegate(names[i], names[i], net, a.Stake-net, false, launch); err != nil {
			return errors.Wrapf(err, "stake %v", names[i])
		}
	}
	for i, a := range accounts {
		if !a.IsProxy {
			continue
		}
		if err := sys.RegProxy(names[i], true, launch); err != nil {
			return errors.Wrapf(err, "register proxy %v", names[i])
		}
	}
	for i, a := range accounts {
		if a.Proxy == "" && len(a.Votes) == 0 {
			continue
		}
		proxy, err := tally.ParseName(a.Proxy)
		if err != nil {
			return errors.Wrapf(err, "proxy of %v", names[i])
		}
		votes := make(tally.Names, 0, len(a.Votes))
		for _, v := range a.Votes {
			n, err := tally.ParseName(v)
			if err != nil {
				return errors.Wrapf(err, "votes of %v", names[i])
			}
			votes = append(votes, n)
		}
		sort.Slice(votes, func(i, j int) bool { return votes[i] < votes[j] })
		if err := sys.VoteProducer(names[i], proxy, votes, launch); err != nil {
			return errors.Wrapf(err, "votes of %v", names[i])
		}
	}
	sys.Token().TakeTransfers()
	return nil
}
