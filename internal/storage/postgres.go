package storage

import (
	"context"
	"errors"

	"campus-messages/internal/storage/zapadapter"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// "user" is a reserved word in Postgres and has to stay quoted
const schema = `
create table if not exists "user" (
	id   bigserial primary key,
	name varchar(50) not null,
	role varchar(20) not null check (role in ('lecturer', 'student'))
);

create table if not exists message (
	id          bigserial primary key,
	sender_id   bigint not null constraint message_sender_id_fkey references "user" (id),
	receiver_id bigint not null constraint message_receiver_id_fkey references "user" (id),
	content     varchar(200) not null,
	"timestamp" timestamptz not null default now()
);

create index if not exists message_sender_id_idx on message (sender_id, id);
create index if not exists message_receiver_id_idx on message (receiver_id, id);
`

// PostgresStore defines fields used in db interaction processes
type PostgresStore struct {
	logger *zap.SugaredLogger
	db     *pgxpool.Pool
}

// NewPostgresStore sets provided zap.Logger via zapadapter to pgxpool.Pool,
// creates missing tables and returns instance of PostgresStore struct
func NewPostgresStore(ctx context.Context, logger *zap.SugaredLogger, cfg Config, opts ...Option) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, err
	}
	config.ConnConfig.Logger = zapadapter.NewLogger(logger.Desugar())
	config.ConnConfig.LogLevel = pgx.LogLevelWarn

	for _, opt := range opts {
		opt.apply(config)
	}

	pool, err := pgxpool.ConnectConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		logger: logger,
		db:     pool,
	}, nil
}

// Close closes all pooled connections
func (s *PostgresStore) Close() {
	s.db.Close()
}

// CreateUser creates user and returns it with its id
func (s *PostgresStore) CreateUser(ctx context.Context, name string, role Role) (User, error) {
	s.logger.Debugf("Creating user (%s, %s)", name, role)

	u := User{Name: name, Role: role}
	sql := `insert into "user" (name, role) values ($1, $2) returning id`
	if err := s.db.QueryRow(ctx, sql, name, string(role)).Scan(&u.ID); err != nil {
		return User{}, err
	}

	s.logger.Debugf("Created user (%s) with id %d", name, u.ID)

	return u, nil
}

// UserByID returns ErrUserNotExist if there is no such user
func (s *PostgresStore) UserByID(ctx context.Context, id int64) (User, error) {
	var (
		u    User
		role string
	)
	sql := `select id, name, role from "user" where id = $1`
	err := s.db.QueryRow(ctx, sql, id).Scan(&u.ID, &u.Name, &role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotExist
		}
		return User{}, err
	}
	u.Role = Role(role)

	return u, nil
}

// CreateMessage creates new message in database and returns it with the id and timestamp given by the database
func (s *PostgresStore) CreateMessage(ctx context.Context, sender, receiver int64, content string) (Message, error) {
	s.logger.Debugf("Creating message from user (id: %d) to user (id: %d)", sender, receiver)

	m := Message{SenderID: sender, ReceiverID: receiver, Content: content}
	var ts pgtype.Timestamptz
	sql := "insert into message (sender_id, receiver_id, content) values ($1, $2, $3) returning id, \"timestamp\""
	err := s.db.QueryRow(ctx, sql, sender, receiver, content).Scan(&m.ID, &ts)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			switch pgErr.ConstraintName {
			case "message_sender_id_fkey":
				return Message{}, ErrMessageBadSender
			case "message_receiver_id_fkey":
				return Message{}, ErrMessageBadReceiver
			}
		}
		return Message{}, err
	}
	m.Timestamp = ts.Time.UTC()

	s.logger.Debugf("Created message with id %d", m.ID)

	return m, nil
}

// MessagesByReceiver returns messages addressed to receiver sorted by id (from earliest to latest)
func (s *PostgresStore) MessagesByReceiver(ctx context.Context, receiver int64) ([]Message, error) {
	s.logger.Debugf("Retrieving received messages for user (id: %d)", receiver)

	return s.queryMessages(ctx, `select id, sender_id, receiver_id, content, "timestamp"
			 from message
			where receiver_id = $1
			order by id asc`, receiver)
}

// MessagesBySender returns messages written by sender sorted by id (from earliest to latest)
func (s *PostgresStore) MessagesBySender(ctx context.Context, sender int64) ([]Message, error) {
	s.logger.Debugf("Retrieving sent messages for user (id: %d)", sender)

	return s.queryMessages(ctx, `select id, sender_id, receiver_id, content, "timestamp"
			 from message
			where sender_id = $1
			order by id asc`, sender)
}

func (s *PostgresStore) queryMessages(ctx context.Context, sql string, id int64) ([]Message, error) {
	rows, err := s.db.Query(ctx, sql, id)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var (
			m  Message
			ts pgtype.Timestamptz
		)
		err = rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &ts)
		if err != nil {
			return nil, err
		}
		m.Timestamp = ts.Time.UTC()
		messages = append(messages, m)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	s.logger.Debugf("Retrieved %d messages", len(messages))

	return messages, nil
}
