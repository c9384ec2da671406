package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func turn(i int) Turn {
	return Turn{Query: fmt.Sprintf("q%d", i), Reply: fmt.Sprintf("r%d", i), Kind: "answer", At: at}
}

func Test_NewID(t *testing.T) {
	id := NewID()
	assert.True(t, ValidID(id))
	assert.NotEqual(t, id, NewID())
	assert.False(t, ValidID("not-a-session"))
}

func Test_MemoryStore_AppendHistory(t *testing.T) {
	s := NewMemoryStore(3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(ctx, "a", turn(i)))
	}
	require.NoError(t, s.Append(ctx, "b", turn(9)))

	h, err := s.History(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []Turn{turn(2), turn(3), turn(4)}, h)

	h, err = s.History(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []Turn{turn(9)}, h)

	h, err = s.History(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, h)
}

func Test_MemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(0, time.Minute)
	now := at
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "old", turn(1)))
	now = now.Add(2 * time.Minute)

	h, err := s.History(ctx, "old")
	require.NoError(t, err)
	assert.Empty(t, h)

	require.NoError(t, s.Append(ctx, "new", turn(2)))
	assert.NotContains(t, s.sessions, "old")
	assert.Contains(t, s.sessions, "new")
}

func Test_MemoryStore_HistoryIsCopy(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, "a", turn(1)))

	h, _ := s.History(ctx, "a")
	h[0].Reply = "changed"

	h, _ = s.History(ctx, "a")
	assert.Equal(t, "r1", h[0].Reply)
}

func Test_RedisStore_Append(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db, 10, time.Hour)

	data, err := json.Marshal(turn(1))
	require.NoError(t, err)

	key := "medbot:session:abc"
	mock.ExpectRPush(key, string(data)).SetVal(1)
	mock.ExpectLTrim(key, -10, -1).SetVal("OK")
	mock.ExpectExpire(key, time.Hour).SetVal(true)

	require.NoError(t, s.Append(context.Background(), "abc", turn(1)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_RedisStore_AppendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db, 10, time.Hour)

	data, _ := json.Marshal(turn(1))
	mock.ExpectRPush("medbot:session:abc", string(data)).SetErr(errors.New("connection refused"))

	err := s.Append(context.Background(), "abc", turn(1))
	assert.ErrorContains(t, err, "connection refused")
}

func Test_RedisStore_History(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db, 0, 0)

	a, _ := json.Marshal(turn(1))
	b, _ := json.Marshal(turn(2))
	mock.ExpectLRange("medbot:session:abc", 0, -1).SetVal([]string{string(a), string(b)})

	h, err := s.History(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, []Turn{turn(1), turn(2)}, h)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_RedisStore_HistoryUndecodable(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db, 0, 0)

	a, _ := json.Marshal(turn(1))
	mock.ExpectLRange("medbot:session:abc", 0, -1).SetVal([]string{string(a), "{broken"})

	_, err := s.History(context.Background(), "abc")
	assert.ErrorContains(t, err, "failed to decode turn 1 of session abc")
	assert.NoError(t, mock.ExpectationsWereMet())
}
