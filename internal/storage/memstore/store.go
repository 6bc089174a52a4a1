// Package memstore is an in-memory storage.IStorage.
//
// Writers work on a private copy of the committed data and publish it on
// Commit, so a unit of work is all-or-nothing and readers only ever see
// committed state. Writers are serialized, which stands in for the row
// locks the Postgres store takes.
package memstore

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/account"
	"github.com/carson-networks/ledger-server/internal/storage/balancehistory"
	"github.com/carson-networks/ledger-server/internal/storage/categorization"
	"github.com/carson-networks/ledger-server/internal/storage/category"
	"github.com/carson-networks/ledger-server/internal/storage/recurring"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
	"github.com/carson-networks/ledger-server/internal/storage/transfer"
)

var ErrFinished = errors.New("memstore: unit of work already finished")

// FaultFunc is consulted before every write with an operation name such as
// "account.update_balance". A non-nil result fails that write.
type FaultFunc func(op string) error

type occurrenceKey struct {
	recurringID uuid.UUID
	date        time.Time
}

type data struct {
	accounts        map[uuid.UUID]account.Account
	history         []balancehistory.Entry
	historySeq      int64
	transactions    map[uuid.UUID]transaction.Transaction
	occurrences     map[occurrenceKey]uuid.UUID
	transfers       map[uuid.UUID]transfer.Transfer
	legs            map[uuid.UUID]uuid.UUID
	templates       map[uuid.UUID]recurring.Template
	categorizations []categorization.Entry
	categories      map[uuid.UUID]category.Category
	subcategories   map[uuid.UUID]category.Subcategory
}

func newData() *data {
	return &data{
		accounts:      map[uuid.UUID]account.Account{},
		transactions:  map[uuid.UUID]transaction.Transaction{},
		occurrences:   map[occurrenceKey]uuid.UUID{},
		transfers:     map[uuid.UUID]transfer.Transfer{},
		legs:          map[uuid.UUID]uuid.UUID{},
		templates:     map[uuid.UUID]recurring.Template{},
		categories:    map[uuid.UUID]category.Category{},
		subcategories: map[uuid.UUID]category.Subcategory{},
	}
}

// clone copies every table. Stored values are replaced, never mutated in place.
func (d *data) clone() *data {
	return &data{
		accounts:        maps.Clone(d.accounts),
		history:         slices.Clip(slices.Clone(d.history)),
		historySeq:      d.historySeq,
		transactions:    maps.Clone(d.transactions),
		occurrences:     maps.Clone(d.occurrences),
		transfers:       maps.Clone(d.transfers),
		legs:            maps.Clone(d.legs),
		templates:       maps.Clone(d.templates),
		categorizations: slices.Clip(slices.Clone(d.categorizations)),
		categories:      maps.Clone(d.categories),
		subcategories:   maps.Clone(d.subcategories),
	}
}

type Option func(*Store)

func WithFault(f FaultFunc) Option {
	return func(s *Store) {
		s.fault = f
	}
}

type Store struct {
	mu   sync.RWMutex
	data *data

	// writeMu is held for the lifetime of a unit of work.
	writeMu sync.Mutex
	fault   FaultFunc
}

var _ storage.IStorage = (*Store)(nil)

func New(opts ...Option) *Store {
	s := &Store{data: newData()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetFault replaces the fault hook for units of work started afterwards.
func (s *Store) SetFault(f FaultFunc) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.fault = f
}

func (s *Store) committed() *data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *Store) Reader() *storage.Reader {
	t := table{view: s.committed}
	return &storage.Reader{
		Accounts:        &accounts{t},
		BalanceHistory:  &history{t},
		Transactions:    &transactions{t},
		Transfers:       &transfers{t},
		Recurring:       &templates{t},
		Categorizations: &categorizations{t},
		Categories:      &categories{t},
	}
}

func (s *Store) Write(ctx context.Context) (*storage.Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.writeMu.Lock()

	u := &unit{store: s, work: s.committed().clone()}
	t := table{
		view:  func() *data { return u.work },
		fault: s.fault,
	}
	return &storage.Writer{
		Tx:              u,
		Accounts:        &accounts{t},
		BalanceHistory:  &history{t},
		Transactions:    &transactions{t},
		Transfers:       &transfers{t},
		Recurring:       &templates{t},
		Categorizations: &categorizations{t},
		Categories:      &categories{t},
	}, nil
}

type unit struct {
	store *Store
	work  *data
	once  sync.Once
}

func (u *unit) Commit(_ context.Context) error {
	return u.finish(true)
}

func (u *unit) Rollback(_ context.Context) error {
	return u.finish(false)
}

func (u *unit) finish(publish bool) error {
	err := ErrFinished
	u.once.Do(func() {
		err = nil
		if publish {
			u.store.mu.Lock()
			u.store.data = u.work
			u.store.mu.Unlock()
		}
		u.store.writeMu.Unlock()
	})
	return err
}

type table struct {
	view  func() *data
	fault FaultFunc
}

func (t table) check(op string) error {
	if t.fault == nil {
		return nil
	}
	return t.fault(op)
}

// Ping reports the fault hook's answer for "ping", so health checks can be failed in tests.
func (s *Store) Ping(_ context.Context) error {
	s.writeMu.Lock()
	fault := s.fault
	s.writeMu.Unlock()
	return table{fault: fault}.check("ping")
}
