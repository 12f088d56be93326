// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package host drives the system contract: it applies transactions, advances time,
// produces blocks and persists the results.
package host

import (
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/tally/builtin/system"
	"github.com/vechain/tally/cache"
	"github.com/vechain/tally/genesis"
	"github.com/vechain/tally/kv"
	"github.com/vechain/tally/log"
	"github.com/vechain/tally/runtime"
	"github.com/vechain/tally/state"
	"github.com/vechain/tally/tally"
	"github.com/vechain/tally/tx"
)

var logger = log.WithContext("pkg", "host")

var (
	metaBucket    = kv.Bucket("m")
	receiptBucket = kv.Bucket("r")
	headKey       = []byte("head")
)

var (
	ErrKnownTx       = errors.New("known transaction")
	ErrSystemSigner  = errors.New("transactions signed by the system account are not accepted")
	ErrTimeTravel    = errors.New("time must not go backwards")
	ErrGenesisChange = errors.New("genesis mismatch")
)

// Head is the persisted progress of the host.
type Head struct {
	GenesisID tally.Bytes32   `json:"genesisID"`
	Number    uint64          `json:"number"`
	Time      tally.TimePoint `json:"time"`
}

// Block summarizes a produced block.
type Block struct {
	Number    uint64          `json:"number"`
	Timestamp tally.TimePoint `json:"timestamp"`
	Producer  tally.Name      `json:"producer"`
	StateHash tally.Bytes32   `json:"stateHash"` // digest of the state changes made by the block
	Receipts  int             `json:"receipts"`
}

// Options of the host.
type Options struct {
	StateCacheSize int
	SeenTxSize     int
}

// Host serializes all state transitions.
type Host struct {
	lock    sync.Mutex
	store   kv.Store
	cache   *state.Cache
	genesis *genesis.Genesis
	params  tally.Params
	head    Head
	seen    *cache.LRU[tally.Bytes32, struct{}]

	receiptFeed event.Feed
	blockFeed   event.Feed
	scope       event.SubscriptionScope
	pub         *publisher
}

// New opens the host on store. An empty store is initialized with gen launched at now.
func New(store kv.Store, gen *genesis.Genesis, now tally.TimePoint, opts Options) (*Host, error) {
	if opts.StateCacheSize <= 0 {
		opts.StateCacheSize = 4096
	}
	if opts.SeenTxSize <= 0 {
		opts.SeenTxSize = 1024
	}
	stateCache, err := state.NewCache(opts.StateCacheSize)
	if err != nil {
		return nil, err
	}
	seen, err := cache.NewLRU[tally.Bytes32, struct{}](opts.SeenTxSize)
	if err != nil {
		return nil, err
	}
	h := &Host{
		store:   store,
		cache:   stateCache,
		genesis: gen,
		params:  gen.ProtocolParams(),
		seen:    seen,
	}

	head, err := h.loadHead()
	if err != nil {
		return nil, err
	}
	if head != nil {
		if head.GenesisID != gen.ID() {
			return nil, errors.WithMessagef(ErrGenesisChange, "stored %v", head.GenesisID)
		}
		h.head = *head
		h.pub = newPublisher()
		logger.Info("host opened", "number", head.Number, "time", head.Time)
		return h, nil
	}

	launch := gen.Launch(now)
	st := state.New(store, stateCache)
	if err := gen.Build(st, launch); err != nil {
		return nil, errors.WithMessage(err, "build genesis")
	}
	newHead := Head{GenesisID: gen.ID(), Time: launch}
	if _, err := h.commit(st, newHead, nil); err != nil {
		return nil, err
	}
	h.pub = newPublisher()
	logger.Info("genesis built", "id", newHead.GenesisID, "launch", launch, "accounts", len(gen.Accounts))
	return h, nil
}

func (h *Host) loadHead() (*Head, error) {
	data, err := metaBucket.NewGetter(h.store).Get(headKey)
	if err != nil {
		if h.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "load head")
	}
	var head Head
	if err := rlp.DecodeBytes(data, &head); err != nil {
		return nil, errors.Wrap(err, "decode head")
	}
	return &head, nil
}

// commit persists the staged state, the receipts and the new head.
func (h *Host) commit(st *state.State, head Head, receipts tx.Receipts) (tally.Bytes32, error) {
	stage := st.Stage()
	hash := stage.Hash()
	if err := stage.Commit(h.store); err != nil {
		return tally.Bytes32{}, errors.WithMessage(err, "commit state")
	}

	batch := h.store.NewBatch()
	for _, r := range receipts {
		data, err := rlp.EncodeToBytes(r)
		if err != nil {
			return tally.Bytes32{}, errors.Wrap(err, "encode receipt")
		}
		if err := receiptBucket.NewPutter(batch).Put(r.TxID[:], data); err != nil {
			return tally.Bytes32{}, errors.Wrap(err, "put receipt")
		}
	}
	data, err := rlp.EncodeToBytes(&head)
	if err != nil {
		return tally.Bytes32{}, errors.Wrap(err, "encode head")
	}
	if err := metaBucket.NewPutter(batch).Put(headKey, data); err != nil {
		return tally.Bytes32{}, errors.Wrap(err, "put head")
	}
	if err := batch.Write(); err != nil {
		return tally.Bytes32{}, errors.Wrap(err, "write batch")
	}
	h.head = head
	return hash, nil
}

func (h *Host) publish(receipts tx.Receipts) {
	for _, r := range receipts {
		h.pub.send(&h.receiptFeed, r)
	}
}

// Genesis returns the genesis the host was opened with.
func (h *Host) Genesis() *genesis.Genesis { return h.genesis }

// Params returns the protocol parameters.
func (h *Host) Params() tally.Params { return h.params }

// Head returns the current head.
func (h *Host) Head() Head {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.head
}

// View calls fn with a read view of the committed state.
// Changes made through the view are discarded.
func (h *Host) View(fn func(sys *system.System) error) error {
	h.lock.Lock()
	defer h.lock.Unlock()
	st := state.New(h.store, h.cache)
	return fn(system.New(st, &h.params))
}

// Receipt returns the receipt of the given transaction id, nil if not found.
func (h *Host) Receipt(id tally.Bytes32) (*tx.Receipt, error) {
	data, err := receiptBucket.NewGetter(h.store).Get(id[:])
	if err != nil {
		if h.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get receipt")
	}
	var r tx.Receipt
	if err := rlp.DecodeBytes(data, &r); err != nil {
		return nil, errors.Wrap(err, "decode receipt")
	}
	return &r, nil
}

// Submit applies a transaction at the current host time.
// A reverted transaction is not an error: check the receipt.
func (h *Host) Submit(trx *tx.Transaction) (*tx.Receipt, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if trx.Signer() == tally.SystemAccount {
		return nil, ErrSystemSigner
	}
	id := trx.ID()
	if _, ok := h.seen.Get(id); ok {
		return nil, ErrKnownTx
	}
	if r, err := h.Receipt(id); err != nil {
		return nil, err
	} else if r != nil {
		h.seen.Add(id, struct{}{})
		return nil, ErrKnownTx
	}

	st := state.New(h.store, h.cache)
	receipt, err := runtime.New(st, &h.params, h.head.Time).ExecuteTransaction(trx)
	if err != nil {
		return nil, err
	}
	if _, err := h.commit(st, h.head, tx.Receipts{receipt}); err != nil {
		return nil, err
	}
	h.seen.Add(id, struct{}{})
	h.publish(tx.Receipts{receipt})
	return receipt, nil
}

// AdvanceTime moves the host clock to `to`, executing every deferred action falling due.
func (h *Host) AdvanceTime(to tally.TimePoint) (tx.Receipts, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	st := state.New(h.store, h.cache)
	receipts, err := h.advance(st, to)
	if err != nil {
		return nil, err
	}
	head := h.head
	head.Time = to
	if _, err := h.commit(st, head, receipts); err != nil {
		return nil, err
	}
	h.publish(receipts)
	return receipts, nil
}

func (h *Host) advance(st *state.State, to tally.TimePoint) (tx.Receipts, error) {
	if to < h.head.Time {
		return nil, errors.WithMessagef(ErrTimeTravel, "from %v to %v", h.head.Time, to)
	}
	sys := system.New(st, &h.params)
	var receipts tx.Receipts
	for {
		e, err := sys.PopDue(to)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return receipts, nil
		}
		at := max(e.Due, h.head.Time)
		receipt, err := runtime.New(st, &h.params, at).ExecuteDeferred(e)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, receipt)
	}
}

// ProduceBlock advances time to `at` and credits the block to the next scheduled producer.
// Producers are picked round-robin by block number; no producer is credited while the schedule is empty.
func (h *Host) ProduceBlock(at tally.TimePoint) (*Block, tx.Receipts, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	st := state.New(h.store, h.cache)
	receipts, err := h.advance(st, at)
	if err != nil {
		return nil, nil, err
	}

	number := h.head.Number + 1
	producers, _, err := system.New(st, &h.params).Schedule()
	if err != nil {
		return nil, nil, err
	}
	var producer tally.Name
	if len(producers) > 0 {
		producer = producers[number%uint64(len(producers))]
		trx, err := tx.New(number, tally.SystemAccount, &tx.OnBlock{Producer: producer})
		if err != nil {
			return nil, nil, err
		}
		receipt, err := runtime.New(st, &h.params, at).ExecuteTransaction(trx)
		if err != nil {
			return nil, nil, err
		}
		receipts = append(receipts, receipt)
	}

	head := h.head
	head.Number = number
	head.Time = at
	hash, err := h.commit(st, head, receipts)
	if err != nil {
		return nil, nil, err
	}
	blk := &Block{
		Number:    number,
		Timestamp: at,
		Producer:  producer,
		StateHash: hash,
		Receipts:  len(receipts),
	}
	logger.Debug("block produced", "number", number, "producer", producer, "receipts", len(receipts))
	if changed, hit, miss := h.cache.Stats().Stats(); changed {
		logger.Debug("state cache stats", "hit", hit, "miss", miss)
	}
	h.publish(receipts)
	h.pub.send(&h.blockFeed, blk)
	return blk, receipts, nil
}

// SubscribeReceipts subscribes to receipts of applied transactions and deferred actions.
func (h *Host) SubscribeReceipts(ch chan *tx.Receipt) event.Subscription {
	return h.scope.Track(h.receiptFeed.Subscribe(ch))
}

// SubscribeBlocks subscribes to produced blocks.
func (h *Host) SubscribeBlocks(ch chan *Block) event.Subscription {
	return h.scope.Track(h.blockFeed.Subscribe(ch))
}

// Close unsubscribes all subscribers and stops publishing. The store is owned by the caller.
func (h *Host) Close() {
	h.scope.Close()
	h.pub.close()
}
