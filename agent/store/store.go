package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:./data/support.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
)

type Config struct {
	Driver       string `envconfig:"DRIVER" split_words:"true" default:"sqlite"`
	DSN          string `envconfig:"DSN" split_words:"true"`
	MaxOpenConns int    `envconfig:"MAX_OPEN_CONNS" split_words:"true" default:"10"`
}

func (c Config) Validate() error {
	switch strings.TrimSpace(c.Driver) {
	case DriverSQLite:
		return nil
	case DriverPostgres:
		if strings.TrimSpace(c.DSN) == "" {
			return fmt.Errorf("%w: postgres dsn is required", contractx.ErrValidation)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported store driver=%q", contractx.ErrValidation, c.Driver)
	}
}

// Option customizes BunStore.
type Option func(*BunStore)

// WithClock replaces the timestamp source used for new rows.
func WithClock(now func() time.Time) Option {
	return func(s *BunStore) {
		if now != nil {
			s.now = now
		}
	}
}

// BunStore is the record store backed by bun over PostgreSQL or SQLite.
type BunStore struct {
	db  *bun.DB
	now func() time.Time
}

var _ contractx.RecordStore = (*BunStore)(nil)

// Open connects to the configured database and creates the schema.
func Open(ctx context.Context, cfg Config, opts ...Option) (*BunStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var db *bun.DB
	switch cfg.Driver {
	case DriverPostgres:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
		if cfg.MaxOpenConns > 0 {
			sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	case DriverSQLite:
		dsn := strings.TrimSpace(cfg.DSN)
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, err
		}
		sqldb, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite serialises writers; a single connection avoids SQLITE_BUSY.
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}

	return New(ctx, db, opts...)
}

// New wraps an existing bun.DB and creates the schema.
func New(ctx context.Context, db *bun.DB, opts ...Option) (*BunStore, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	s := &BunStore{db: db, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if err := s.db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := s.createSchema(ctx); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return s, nil
}

func ensureSQLiteDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	return nil
}

func (s *BunStore) createSchema(ctx context.Context) error {
	models := []any{
		(*orderModel)(nil),
		(*invoiceModel)(nil),
		(*conversationModel)(nil),
		(*messageModel)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	_, err := s.db.NewCreateIndex().
		Model((*messageModel)(nil)).
		Index("idx_messages_conversation_created").
		Column("conversation_id", "created_at").
		IfNotExists().
		Exec(ctx)
	return err
}

func (s *BunStore) Close() error {
	return s.db.Close()
}

func (s *BunStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *BunStore) GetOrder(ctx context.Context, id string) (*contractx.Order, error) {
	var m orderModel
	err := s.db.NewSelect().Model(&m).Where("o.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return m.toContract(), nil
}

func (s *BunStore) ListOrders(ctx context.Context) ([]*contractx.Order, error) {
	var rows []*orderModel
	if err := s.db.NewSelect().Model(&rows).Order("o.created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]*contractx.Order, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toContract())
	}
	return out, nil
}

func (s *BunStore) GetInvoice(ctx context.Context, id string) (*contractx.Invoice, error) {
	var m invoiceModel
	err := s.db.NewSelect().Model(&m).Where("i.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice %s: %w", id, err)
	}
	return m.toContract(), nil
}

func (s *BunStore) ListInvoices(ctx context.Context) ([]*contractx.Invoice, error) {
	var rows []*invoiceModel
	if err := s.db.NewSelect().Model(&rows).Order("i.created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	out := make([]*contractx.Invoice, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toContract())
	}
	return out, nil
}

func (s *BunStore) CreateConversation(ctx context.Context) (*contractx.Conversation, error) {
	m := &conversationModel{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(m).Exec(ctx); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return m.toContract(), nil
}

func (s *BunStore) GetConversation(ctx context.Context, id string) (*contractx.Conversation, error) {
	var m conversationModel
	err := s.db.NewSelect().Model(&m).Where("c.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation %s: %w", id, err)
	}
	return m.toContract(), nil
}

// ListConversations returns every conversation newest first, each with its
// messages in ascending order.
func (s *BunStore) ListConversations(ctx context.Context) ([]*contractx.Conversation, error) {
	var rows []*conversationModel
	err := s.db.NewSelect().
		Model(&rows).
		Relation("Messages", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("m.created_at ASC")
		}).
		Order("c.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	out := make([]*contractx.Conversation, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toContract())
	}
	return out, nil
}

// DeleteConversation removes the conversation and its messages in one
// transaction.
func (s *BunStore) DeleteConversation(ctx context.Context, id string) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*messageModel)(nil)).
			Where("conversation_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete messages of conversation %s: %w", id, err)
		}

		res, err := tx.NewDelete().
			Model((*conversationModel)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete conversation %s: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: conversation id=%s", contractx.ErrNotFound, id)
		}
		return nil
	})
}

func (s *BunStore) UpdateConversationTitle(ctx context.Context, id string, title string) error {
	res, err := s.db.NewUpdate().
		Model((*conversationModel)(nil)).
		Set("title = ?", title).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update conversation title %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: conversation id=%s", contractx.ErrNotFound, id)
	}
	return nil
}

func (s *BunStore) AppendMessage(
	ctx context.Context,
	conversationID string,
	role contractx.Role,
	content string,
	label contractx.AgentLabel,
) (*contractx.Message, error) {
	m := &messageModel{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           string(role),
		Content:        content,
		AgentType:      string(label),
		CreatedAt:      s.now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(m).Exec(ctx); err != nil {
		return nil, fmt.Errorf("append %s message to conversation %s: %w", role, conversationID, err)
	}
	return m.toContract(), nil
}

func (s *BunStore) ListMessages(ctx context.Context, conversationID string) ([]*contractx.Message, error) {
	var rows []*messageModel
	err := s.db.NewSelect().
		Model(&rows).
		Where("m.conversation_id = ?", conversationID).
		Order("m.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages of conversation %s: %w", conversationID, err)
	}
	out := make([]*contractx.Message, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toContract())
	}
	return out, nil
}

func (s *BunStore) MostRecentAssistantMessage(ctx context.Context, conversationID string) (*contractx.Message, error) {
	var m messageModel
	err := s.db.NewSelect().
		Model(&m).
		Where("m.conversation_id = ?", conversationID).
		Where("m.role = ?", string(contractx.RoleAssistant)).
		Order("m.created_at DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest assistant message of conversation %s: %w", conversationID, err)
	}
	return m.toContract(), nil
}
