package storage

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

// IStorage hands out committed-state readers and unit-of-work writers.
type IStorage interface {
	Reader() *Reader
	Write(ctx context.Context) (*Writer, error)
}

// Storage is the Postgres-backed IStorage. Each Writer is one database
// transaction and row locks taken through it are held until it ends.
type Storage struct {
	DB     *sql.DB
	db     bob.DB
	reader *Reader
}

var _ IStorage = (*Storage)(nil)

func NewStorage(details sqlconfig.ConnectionDetails) (*Storage, error) {
	db, err := sql.Open("postgres", details.DSN())
	if err != nil {
		return nil, err
	}
	return NewStorageFromDB(db), nil
}

func NewStorageFromDB(db *sql.DB) *Storage {
	bobDB := bob.NewDB(db)
	return &Storage{
		DB:     db,
		db:     bobDB,
		reader: NewReader(bobDB),
	}
}

func (s *Storage) Reader() *Reader {
	return s.reader
}

func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return NewWriter(&tx), nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
