// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package producers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/tally/api/accounts"
	"github.com/vechain/tally/api/utils"
	"github.com/vechain/tally/builtin/system"
	"github.com/vechain/tally/builtin/system/accrual"
	"github.com/vechain/tally/builtin/system/globalstats"
	"github.com/vechain/tally/builtin/system/producer"
	"github.com/vechain/tally/tally"
)

// Producer is a producer record with its per-vote pay share.
type Producer struct {
	*producer.Producer
	Votepay accounts.Share `json:"votepay"`
}

// Schedule is the elected producer schedule.
type Schedule struct {
	Version    uint32          `json:"version"`
	Producers  tally.Names     `json:"producers"`
	LastUpdate tally.TimePoint `json:"lastUpdate"`
}

// Aggregate is the global state of an accrual engine.
type Aggregate struct {
	Total       float64         `json:"total"`
	Rate        float64         `json:"rate"`
	LastUpdated tally.TimePoint `json:"lastUpdated"`
}

// Pools is the state of the reward pools.
type Pools struct {
	Supply         int64     `json:"supply"`
	Savings        int64     `json:"savings"`
	VoterBucket    int64     `json:"voterBucket"`
	PerBlockBucket int64     `json:"perblockBucket"`
	PerVoteBucket  int64     `json:"pervoteBucket"`
	Voters         Aggregate `json:"voters"`
	Producers      Aggregate `json:"producers"`
}

func convertAggregate(a *accrual.Aggregate) Aggregate {
	return Aggregate{Total: a.Total, Rate: a.Rate, LastUpdated: a.LastUpdated}
}

func convertProducer(p *producer.Producer) *Producer {
	return &Producer{Producer: p, Votepay: accounts.ConvertShare(&p.Votepay)}
}

type Producers struct {
	viewer accounts.Viewer
}

func New(viewer accounts.Viewer) *Producers {
	return &Producers{viewer}
}

func (p *Producers) handleGetProducers(w http.ResponseWriter, _ *http.Request) error {
	list := make([]*Producer, 0)
	if err := p.viewer.View(func(sys *system.System) error {
		all, err := sys.Producers()
		for _, prod := range all {
			list = append(list, convertProducer(prod))
		}
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, list)
}

func (p *Producers) handleGetProducer(w http.ResponseWriter, req *http.Request) error {
	name, err := utils.NameVar(req, "name")
	if err != nil {
		return err
	}
	var prod *producer.Producer
	if err := p.viewer.View(func(sys *system.System) (err error) {
		prod, err = sys.Producer(name)
		return
	}); err != nil {
		return err
	}
	if prod == nil {
		return utils.NotFound("producer")
	}
	return utils.WriteJSON(w, convertProducer(prod))
}

func (p *Producers) handleGetSchedule(w http.ResponseWriter, _ *http.Request) error {
	var s Schedule
	if err := p.viewer.View(func(sys *system.System) (err error) {
		if s.Producers, s.Version, err = sys.Schedule(); err != nil {
			return
		}
		g, err := sys.Global()
		if err != nil {
			return err
		}
		s.LastUpdate = g.LastScheduleUpdate
		return nil
	}); err != nil {
		return err
	}
	if s.Producers == nil {
		s.Producers = tally.Names{}
	}
	return utils.WriteJSON(w, &s)
}

func (p *Producers) handleGetGlobal(w http.ResponseWriter, _ *http.Request) error {
	var g *globalstats.Global
	if err := p.viewer.View(func(sys *system.System) (err error) {
		g, err = sys.Global()
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, g)
}

func (p *Producers) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	var pools Pools
	if err := p.viewer.View(func(sys *system.System) error {
		g, err := sys.Global()
		if err != nil {
			return err
		}
		pools.VoterBucket = g.VoterBucket
		pools.PerBlockBucket = g.PerBlockBucket
		pools.PerVoteBucket = g.PerVoteBucket

		if pools.Supply, err = sys.Token().Supply(); err != nil {
			return err
		}
		if pools.Savings, err = sys.Token().Balance(tally.SavingsAccount); err != nil {
			return err
		}
		va, err := sys.VoterAggregate()
		if err != nil {
			return err
		}
		pa, err := sys.ProducerAggregate()
		if err != nil {
			return err
		}
		pools.Voters = convertAggregate(va)
		pools.Producers = convertAggregate(pa)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &pools)
}

// Mount registers the producer and global routes at the root of the router.
func (p *Producers) Mount(root *mux.Router) {
	root.Path("/producers").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetProducers))
	root.Path("/producers/{name}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetProducer))
	root.Path("/schedule").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetSchedule))
	root.Path("/global").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetGlobal))
	root.Path("/pools").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetPools))
}
