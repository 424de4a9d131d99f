package blogauth

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const confirmationRecordVersionV1 = 1

var errConfirmationNotFound = errors.New("confirmation record not found")

type confirmationRecord struct {
	UserID   string
	IssuedAt int64
}

// confirmationStore keeps the per-user two-factor confirmation markers.
// At most one confirmation exists per user; put overwrites any prior one,
// which is the atomic form of "delete old, create new".
type confirmationStore struct {
	rdb    *redis.Client
	prefix string
}

func newConfirmationStore(rdb *redis.Client, prefix string) *confirmationStore {
	if prefix == "" {
		prefix = "ba"
	}
	return &confirmationStore{
		rdb:    rdb,
		prefix: prefix,
	}
}

func (s *confirmationStore) key(userID string) string {
	return s.prefix + ":2fc:" + userID
}

func (s *confirmationStore) put(ctx context.Context, userID string, at time.Time) error {
	record := confirmationRecord{
		UserID:   userID,
		IssuedAt: at.Unix(),
	}

	var buf bytes.Buffer
	buf.WriteByte(confirmationRecordVersionV1)
	if err := binary.Write(&buf, binary.BigEndian, record.IssuedAt); err != nil {
		return err
	}

	if err := s.rdb.Set(ctx, s.key(userID), buf.Bytes(), 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", errTokenRedis, err)
	}
	return nil
}

func (s *confirmationStore) get(ctx context.Context, userID string) (*confirmationRecord, error) {
	data, err := s.rdb.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errConfirmationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errTokenRedis, err)
	}

	if len(data) != 9 || data[0] != confirmationRecordVersionV1 {
		return nil, errors.New("invalid confirmation record")
	}

	return &confirmationRecord{
		UserID:   userID,
		IssuedAt: int64(binary.BigEndian.Uint64(data[1:])),
	}, nil
}

func (s *confirmationStore) delete(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", errTokenRedis, err)
	}
	return nil
}
