package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"time"

	"campus-messages/internal/storage/zapadapter"

	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack"
	"go.uber.org/zap"
)

// Key layout:
//
//	user:{id}                 -> msgpack(User)
//	msg:{id}                  -> msgpack(Message)
//	idx:recv:{receiver}{id}   -> empty
//	idx:sent:{sender}{id}     -> empty
//
// ids are 8 byte big-endian so that prefix scans return them in insertion order.
var (
	userPrefix     = []byte("user:")
	messagePrefix  = []byte("msg:")
	receivedPrefix = []byte("idx:recv:")
	sentPrefix     = []byte("idx:sent:")

	userSeqKey    = []byte("seq:user")
	messageSeqKey = []byte("seq:msg")
)

const seqBandwidth = 100

// BadgerStore keeps users and messages in an embedded badger database
type BadgerStore struct {
	logger     *zap.SugaredLogger
	db         *badger.DB
	userSeq    *badger.Sequence
	messageSeq *badger.Sequence
}

// NewBadgerStore opens the badger database at path, an empty path keeps everything in memory
func NewBadgerStore(logger *zap.SugaredLogger, path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(zapadapter.NewBadgerLogger(logger))
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	userSeq, err := db.GetSequence(userSeqKey, seqBandwidth)
	if err != nil {
		db.Close()
		return nil, err
	}

	messageSeq, err := db.GetSequence(messageSeqKey, seqBandwidth)
	if err != nil {
		_ = userSeq.Release()
		db.Close()
		return nil, err
	}

	return &BadgerStore{
		logger:     logger,
		db:         db,
		userSeq:    userSeq,
		messageSeq: messageSeq,
	}, nil
}

// Close returns unused sequence leases and closes the database
func (s *BadgerStore) Close() {
	if err := s.userSeq.Release(); err != nil {
		s.logger.Errorf("releasing user sequence: %v", err)
	}
	if err := s.messageSeq.Release(); err != nil {
		s.logger.Errorf("releasing message sequence: %v", err)
	}
	if err := s.db.Close(); err != nil {
		s.logger.Errorf("closing badger: %v", err)
	}
}

// CreateUser creates user and returns it with its id
func (s *BadgerStore) CreateUser(ctx context.Context, name string, role Role) (User, error) {
	s.logger.Debugf("Creating user (%s, %s)", name, role)

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	id, err := nextID(s.userSeq)
	if err != nil {
		return User{}, err
	}

	u := User{ID: id, Name: name, Role: role}
	data, err := msgpack.Marshal(&u)
	if err != nil {
		return User{}, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(idKey(userPrefix, id), data)
	})
	if err != nil {
		return User{}, err
	}

	s.logger.Debugf("Created user (%s) with id %d", name, id)

	return u, nil
}

// UserByID returns ErrUserNotExist if there is no such user
func (s *BadgerStore) UserByID(ctx context.Context, id int64) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	var u User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idKey(userPrefix, id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &u)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return User{}, ErrUserNotExist
		}
		return User{}, err
	}

	return u, nil
}

// CreateMessage checks both users inside the write transaction, then stores the message with its index entries
func (s *BadgerStore) CreateMessage(ctx context.Context, sender, receiver int64, content string) (Message, error) {
	s.logger.Debugf("Creating message from user (id: %d) to user (id: %d)", sender, receiver)

	if err := ctx.Err(); err != nil {
		return Message{}, err
	}

	var m Message
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := mustExist(txn, idKey(userPrefix, sender), ErrMessageBadSender); err != nil {
			return err
		}
		if err := mustExist(txn, idKey(userPrefix, receiver), ErrMessageBadReceiver); err != nil {
			return err
		}

		id, err := nextID(s.messageSeq)
		if err != nil {
			return err
		}

		m = Message{
			ID:         id,
			SenderID:   sender,
			ReceiverID: receiver,
			Content:    content,
			Timestamp:  time.Now().UTC(),
		}
		data, err := msgpack.Marshal(&m)
		if err != nil {
			return err
		}

		if err := txn.Set(idKey(messagePrefix, id), data); err != nil {
			return err
		}
		if err := txn.Set(indexKey(receivedPrefix, receiver, id), nil); err != nil {
			return err
		}
		return txn.Set(indexKey(sentPrefix, sender, id), nil)
	})
	if err != nil {
		return Message{}, err
	}

	s.logger.Debugf("Created message with id %d", m.ID)

	return m, nil
}

// MessagesByReceiver returns messages addressed to receiver sorted by id (from earliest to latest)
func (s *BadgerStore) MessagesByReceiver(ctx context.Context, receiver int64) ([]Message, error) {
	s.logger.Debugf("Retrieving received messages for user (id: %d)", receiver)

	return s.scanIndex(ctx, idKey(receivedPrefix, receiver))
}

// MessagesBySender returns messages written by sender sorted by id (from earliest to latest)
func (s *BadgerStore) MessagesBySender(ctx context.Context, sender int64) ([]Message, error) {
	s.logger.Debugf("Retrieving sent messages for user (id: %d)", sender)

	return s.scanIndex(ctx, idKey(sentPrefix, sender))
}

func (s *BadgerStore) scanIndex(ctx context.Context, prefix []byte) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	messages := []Message{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			id := int64(binary.BigEndian.Uint64(key[len(prefix):]))

			item, err := txn.Get(idKey(messagePrefix, id))
			if err != nil {
				return err
			}

			var m Message
			err = item.Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &m)
			})
			if err != nil {
				return err
			}
			m.Timestamp = m.Timestamp.UTC()
			messages = append(messages, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debugf("Retrieved %d messages", len(messages))

	return messages, nil
}

func mustExist(txn *badger.Txn, key []byte, notFound error) error {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return notFound
	}
	return err
}

// nextID starts at 1, badger sequences start at 0
func nextID(seq *badger.Sequence) (int64, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, err
	}
	return int64(n) + 1, nil
}

func idKey(prefix []byte, id int64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], uint64(id))
	return key
}

func indexKey(prefix []byte, owner, id int64) []byte {
	key := make([]byte, len(prefix)+16)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], uint64(owner))
	binary.BigEndian.PutUint64(key[len(prefix)+8:], uint64(id))
	return key
}
