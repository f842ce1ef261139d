// Package surrealdb persists generated data into SurrealDB over its
// websocket RPC endpoint. Containers, access records, classifications and
// tasks become records of their own tables; distribution edges become
// distributes_to graph edges created with RELATE.
package surrealdb

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/store"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/surrealrpc"
)

const (
	DefaultBatchSize = 500

	TableWorkbasket     = "workbasket"
	TableAccess         = "workbasket_access"
	TableClassification = "classification"
	TableTask           = "task"
	EdgeDistributes     = "distributes_to"
)

const schema = `
DEFINE TABLE IF NOT EXISTS workbasket SCHEMALESS;
DEFINE INDEX IF NOT EXISTS workbasket_key_domain ON workbasket FIELDS key, domain UNIQUE;
DEFINE TABLE IF NOT EXISTS distributes_to SCHEMALESS TYPE RELATION FROM workbasket TO workbasket;
DEFINE TABLE IF NOT EXISTS workbasket_access SCHEMALESS;
DEFINE TABLE IF NOT EXISTS classification SCHEMALESS;
DEFINE TABLE IF NOT EXISTS task SCHEMALESS;
`

const relate = `LET $p = type::thing('workbasket', $parent);
LET $c = type::thing('workbasket', $child);
RELATE $p->distributes_to->$c;`

// Config selects the endpoint and credentials.
type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

type Option func(s *Store)

func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// Store implements store.Store on a SurrealDB RPC connection.
type Store struct {
	client    *surrealrpc.Client
	batchSize int
	log       zerolog.Logger
}

var _ store.Store = (*Store)(nil)

// New dials cfg.URL, signs in when a username is set and selects the
// namespace and database.
func New(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	client, err := surrealrpc.Dial(ctx, cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.Username != "" {
		if err := client.SignIn(ctx, cfg.Username, cfg.Password); err != nil {
			client.Close()
			return nil, fmt.Errorf("signin: %w", err)
		}
	}
	if err := client.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		client.Close()
		return nil, fmt.Errorf("use %s/%s: %w", cfg.Namespace, cfg.Database, err)
	}
	return NewWithClient(client, opts...), nil
}

// NewWithClient uses an already authenticated client.
func NewWithClient(client *surrealrpc.Client, opts ...Option) *Store {
	s := &Store{client: client, batchSize: DefaultBatchSize, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.client.Query(ctx, schema, nil)
	return err
}

func (s *Store) CreateContainers(ctx context.Context, containers []*models.Container) error {
	return insert(ctx, s, TableWorkbasket, containers, newWorkbasketDoc)
}

func (s *Store) CreateDistributionEdge(ctx context.Context, parentID, childID string) error {
	_, err := s.client.Query(ctx, relate, map[string]any{"parent": parentID, "child": childID})
	return err
}

func (s *Store) CreateAccessRecords(ctx context.Context, records []*models.AccessRecord) error {
	return insert(ctx, s, TableAccess, records, newAccessDoc)
}

func (s *Store) CreateClassifications(ctx context.Context, classifications []*models.Classification) error {
	return insert(ctx, s, TableClassification, classifications, newClassificationDoc)
}

func (s *Store) CreateItems(ctx context.Context, items []*models.Item) error {
	return insert(ctx, s, TableTask, items, newTaskDoc)
}

func (s *Store) Close() error {
	return s.client.Close()
}

// insert writes values as documents of table, batchSize documents per
// INSERT statement.
func insert[T, D any](ctx context.Context, s *Store, table string, values []T, toDoc func(T) D) error {
	sql := fmt.Sprintf("INSERT INTO %s $rows;", table)
	for start := 0; start < len(values); start += s.batchSize {
		end := min(start+s.batchSize, len(values))
		docs := make([]D, 0, end-start)
		for _, v := range values[start:end] {
			docs = append(docs, toDoc(v))
		}
		if _, err := s.client.Query(ctx, sql, map[string]any{"rows": docs}); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	s.log.Debug().Str("table", table).Int("count", len(values)).Msg("inserted")
	return nil
}
