package blogauth

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenRecordVersionV1 = 1

var (
	errTokenRecordNotFound = errors.New("token record not found")
	errTokenRedis          = errors.New("token redis unavailable")
)

// issueTokenLua atomically replaces the live token for an email: it drops
// the by-value index of any prior record, then writes the new record and
// its index under one TTL. Running it as a single script is what makes
// "delete prior, create new" safe under concurrent issuance.
//
// KEYS[1] = by-email record key
// ARGV[1] = encoded record
// ARGV[2] = ttl in milliseconds
// ARGV[3] = by-value index key prefix ("" for unindexed kinds)
// ARGV[4] = token value
// ARGV[5] = owning email
//
// The record layout is fixed so the script can locate the prior value:
// version(1) kind(1) expiresAt(8 BE) issuedAt(8 BE) valueLen(2 BE) value ...
var issueTokenLua = redis.NewScript(`
local old = redis.call('GET', KEYS[1])
if old and ARGV[3] ~= '' then
  local n = string.byte(old, 19) * 256 + string.byte(old, 20)
  local prior = string.sub(old, 21, 20 + n)
  redis.call('DEL', ARGV[3] .. prior)
end

redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
if ARGV[3] ~= '' then
  redis.call('SET', ARGV[3] .. ARGV[4], ARGV[5], 'PX', ARGV[2])
end
return 1
`)

// consumeTokenLua deletes the record and its index only while the stored
// value still matches, so a token can be consumed at most once.
//
// KEYS[1] = by-email record key
// ARGV[1] = expected token value
// ARGV[2] = by-value index key ("" for unindexed kinds)
var consumeTokenLua = redis.NewScript(`
local rec = redis.call('GET', KEYS[1])
if not rec then
  return {err='not_found'}
end

local n = string.byte(rec, 19) * 256 + string.byte(rec, 20)
if string.sub(rec, 21, 20 + n) ~= ARGV[1] then
  return {err='not_found'}
end

redis.call('DEL', KEYS[1])
if ARGV[2] ~= '' then
  redis.call('DEL', ARGV[2])
end
return 1
`)

type tokenRecord struct {
	Kind      tokenKind
	Value     string
	Email     string
	ExpiresAt int64
	IssuedAt  int64
}

func (r *tokenRecord) expired(now time.Time) bool {
	return now.Unix() > r.ExpiresAt
}

// tokenStore holds one token kind in Redis. Records live under a by-email
// key; indexed kinds additionally keep a by-value key so flows that only
// hold the opaque token can resolve the owning email.
type tokenStore struct {
	rdb     *redis.Client
	prefix  string
	kind    tokenKind
	indexed bool
}

func newTokenStore(rdb *redis.Client, prefix string, kind tokenKind, indexed bool) *tokenStore {
	if prefix == "" {
		prefix = "ba"
	}
	return &tokenStore{
		rdb:     rdb,
		prefix:  prefix,
		kind:    kind,
		indexed: indexed,
	}
}

func (s *tokenStore) emailKey(email string) string {
	return s.prefix + ":tok:" + s.kind.keyString() + ":email:" + email
}

func (s *tokenStore) valuePrefix() string {
	if !s.indexed {
		return ""
	}
	return s.prefix + ":tok:" + s.kind.keyString() + ":val:"
}

func (s *tokenStore) issue(ctx context.Context, record *tokenRecord, ttl time.Duration) error {
	encoded, err := encodeTokenRecord(record)
	if err != nil {
		return err
	}

	err = issueTokenLua.Run(ctx, s.rdb,
		[]string{s.emailKey(record.Email)},
		encoded,
		ttl.Milliseconds(),
		s.valuePrefix(),
		record.Value,
		record.Email,
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", errTokenRedis, err)
	}

	return nil
}

func (s *tokenStore) getByEmail(ctx context.Context, email string) (*tokenRecord, error) {
	data, err := s.rdb.Get(ctx, s.emailKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errTokenRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errTokenRedis, err)
	}

	record, err := decodeTokenRecord(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errTokenRedis, err)
	}

	return record, nil
}

func (s *tokenStore) getByValue(ctx context.Context, value string) (*tokenRecord, error) {
	if !s.indexed {
		return nil, errTokenRecordNotFound
	}

	email, err := s.rdb.Get(ctx, s.valuePrefix()+value).Result()
	if errors.Is(err, redis.Nil) {
		return nil, errTokenRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errTokenRedis, err)
	}

	record, err := s.getByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	// A stale index can outlive a superseded record briefly; the value
	// check keeps superseded tokens from resolving.
	if record.Value != value {
		return nil, errTokenRecordNotFound
	}

	return record, nil
}

// consume deletes the record if it is still the live token for its email.
// It fails with errTokenRecordNotFound when the token was already consumed
// or superseded.
func (s *tokenStore) consume(ctx context.Context, record *tokenRecord) error {
	valueKey := ""
	if s.indexed {
		valueKey = s.valuePrefix() + record.Value
	}

	err := consumeTokenLua.Run(ctx, s.rdb,
		[]string{s.emailKey(record.Email)},
		record.Value,
		valueKey,
	).Err()
	if err != nil {
		if err.Error() == "not_found" {
			return errTokenRecordNotFound
		}
		return fmt.Errorf("%w: %v", errTokenRedis, err)
	}

	return nil
}

func encodeTokenRecord(record *tokenRecord) ([]byte, error) {
	if len(record.Value) > 65535 || len(record.Email) > 65535 {
		return nil, errors.New("token record field too long")
	}

	var buf bytes.Buffer

	buf.WriteByte(tokenRecordVersionV1)
	buf.WriteByte(byte(record.Kind))

	if err := binary.Write(&buf, binary.BigEndian, record.ExpiresAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, record.IssuedAt); err != nil {
		return nil, err
	}

	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.Value))); err != nil {
		return nil, err
	}
	buf.WriteString(record.Value)

	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.Email))); err != nil {
		return nil, err
	}
	buf.WriteString(record.Email)

	return buf.Bytes(), nil
}

func decodeTokenRecord(data []byte) (*tokenRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != tokenRecordVersionV1 {
		return nil, errors.New("invalid token record version")
	}

	kind, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	record := &tokenRecord{
		Kind: tokenKind(kind),
	}

	if err := binary.Read(reader, binary.BigEndian, &record.ExpiresAt); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &record.IssuedAt); err != nil {
		return nil, err
	}

	var valueLen uint16
	if err := binary.Read(reader, binary.BigEndian, &valueLen); err != nil {
		return nil, err
	}
	value := make([]byte, valueLen)
	if _, err := io.ReadFull(reader, value); err != nil {
		return nil, err
	}
	record.Value = string(value)

	var emailLen uint16
	if err := binary.Read(reader, binary.BigEndian, &emailLen); err != nil {
		return nil, err
	}
	email := make([]byte, emailLen)
	if _, err := io.ReadFull(reader, email); err != nil {
		return nil, err
	}
	record.Email = string(email)

	return record, nil
}
