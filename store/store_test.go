package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/lwecore/core/lwe"
	"github.com/tuneinsight/lwecore/utils/logging"
	"github.com/tuneinsight/lwecore/utils/sampling"
)

// redisAddrEnv names the variable holding the address of a Redis server
// used by the Redis tests, which are skipped when it is unset.
const redisAddrEnv = "LWECORE_REDIS_ADDR"

func TestMemoryStorage(t *testing.T) {

	testStorage(t, NewMemoryStorage(1<<20))

	t.Run("Capacity", func(t *testing.T) {
		ctx := context.Background()
		s := NewMemoryStorage(10)

		_, err := s.Store(ctx, []byte("0123456789"))
		require.NoError(t, err)
		require.Equal(t, int64(10), s.Size())

		_, err = s.Store(ctx, []byte("x"))
		require.ErrorIs(t, err, ErrStorageFull)

		// duplicates do not consume capacity
		_, err = s.Store(ctx, []byte("0123456789"))
		require.NoError(t, err)
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewMemoryStorage(1 << 10).Store(ctx, []byte("data"))
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRedisStorage(t *testing.T) {

	addr := os.Getenv(redisAddrEnv)
	if addr == "" {
		t.Skipf("%s is not set", redisAddrEnv)
	}

	s, err := NewRedisStorage(context.Background(), RedisConfig{Addr: addr, Prefix: "lwecore:test:"})
	require.NoError(t, err)

	testStorage(t, s)
}

func testStorage(t *testing.T, s Storage) {

	ctx := context.Background()

	seeder, err := sampling.NewDeterministicSeeder([]byte("store"))
	require.NoError(t, err)
	eng, err := lwe.NewEngine(seeder)
	require.NoError(t, err)
	eng.SetLogger(logging.Discard())

	sk, err := eng.GenerateSecretKey(16)
	require.NoError(t, err)

	ct, err := eng.CreateCiphertext(16)
	require.NoError(t, err)
	require.NoError(t, eng.DiscardEncrypt(sk, ct, 7<<58, 1e-9))

	t.Run("SaveLoad", func(t *testing.T) {
		h, err := SaveCiphertext(ctx, s, ct)
		require.NoError(t, err)
		require.NoError(t, h.Validate())

		// content addressed
		h2, err := SaveCiphertext(ctx, s, ct)
		require.NoError(t, err)
		require.Equal(t, h, h2)

		exists, err := s.Exists(ctx, h)
		require.NoError(t, err)
		require.True(t, exists)

		ctNew, err := LoadCiphertext(ctx, s, eng, h)
		require.NoError(t, err)
		require.True(t, ct.Equal(ctNew))

		pt, err := eng.Decrypt(sk, ctNew)
		require.NoError(t, err)
		require.Equal(t, uint64(7), (pt+1<<57)>>58)

		require.NoError(t, s.Delete(ctx, h))
		require.ErrorIs(t, s.Delete(ctx, h), ErrNotFound)

		_, err = s.Load(ctx, h)
		require.ErrorIs(t, err, ErrNotFound)

		exists, err = s.Exists(ctx, h)
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("InvalidHandle", func(t *testing.T) {
		_, err := s.Load(ctx, Handle("not a handle"))
		require.ErrorIs(t, err, ErrInvalidHandle)
		_, err = s.Exists(ctx, Handle("zz"+string(ComputeHandle(nil))[2:]))
		require.ErrorIs(t, err, ErrInvalidHandle)
	})

	require.NoError(t, s.Close())
}
