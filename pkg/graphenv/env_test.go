package graphenv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stardust-db/stardust/pkg/storeerr"
)

func openTestEnv(t *testing.T) *Environment {
	t.Helper()
	env, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func TestSetGetAcrossTransactions(t *testing.T) {
	env := openTestEnv(t)

	err := env.Update(func(tx *Transaction) error {
		return tx.Set(BucketNodes, []byte("k1"), []byte("v1"))
	})
	require.NoError(t, err)

	err = env.View(func(tx *Transaction) error {
		val, err := tx.Get(BucketNodes, []byte("k1"))
		require.NoError(t, err)
		require.Equal(t, []byte("v1"), val)
		return nil
	})
	require.NoError(t, err)
}

func TestGetMissingKeyIsNotFound(t *testing.T) {
	env := openTestEnv(t)

	err := env.View(func(tx *Transaction) error {
		_, err := tx.Get(BucketNodes, []byte("missing"))
		require.ErrorIs(t, err, storeerr.NotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestBucketsAreIsolated(t *testing.T) {
	env := openTestEnv(t)

	err := env.Update(func(tx *Transaction) error {
		return tx.Set(BucketNodes, []byte("x"), []byte("from-nodes"))
	})
	require.NoError(t, err)

	err = env.View(func(tx *Transaction) error {
		_, err := tx.Get(BucketEdgesByID, []byte("x"))
		require.ErrorIs(t, err, storeerr.NotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestCommitThenCommitIsTxnClosed(t *testing.T) {
	env := openTestEnv(t)
	tx := env.Begin(true)
	require.NoError(t, tx.Set(BucketMeta, []byte("a"), []byte("b")))
	require.NoError(t, tx.Commit())
	err := tx.Commit()
	require.True(t, errors.Is(err, storeerr.TxnClosed))
}

func TestOperationsAfterAbortAreTxnClosed(t *testing.T) {
	env := openTestEnv(t)
	tx := env.Begin(false)
	tx.Abort()
	_, err := tx.Get(BucketMeta, []byte("a"))
	require.ErrorIs(t, err, storeerr.TxnClosed)
}

func TestWriteOnReadOnlyTransactionFails(t *testing.T) {
	env := openTestEnv(t)
	tx := env.Begin(false)
	defer tx.Abort()
	err := tx.Set(BucketMeta, []byte("a"), []byte("b"))
	require.Error(t, err)
}

func TestCursorScansBucketInOrderAndStopsAtPrefix(t *testing.T) {
	env := openTestEnv(t)

	err := env.Update(func(tx *Transaction) error {
		for _, k := range []string{"a", "b", "c"} {
			if err := tx.Set(BucketLabelIndex, []byte(k), []byte(k)); err != nil {
				return err
			}
		}
		return tx.Set(BucketMeta, []byte("z"), []byte("other-bucket"))
	})
	require.NoError(t, err)

	err = env.View(func(tx *Transaction) error {
		cur, err := tx.NewCursor(BucketLabelIndex, true)
		require.NoError(t, err)
		defer cur.Close()

		var got []string
		for cur.SeekRange(nil); cur.Valid(); cur.Next() {
			got = append(got, string(cur.Key()))
		}
		require.Equal(t, []string{"a", "b", "c"}, got)
		return nil
	})
	require.NoError(t, err)
}

func TestCursorSeekRangeSkipsLowerKeys(t *testing.T) {
	env := openTestEnv(t)

	err := env.Update(func(tx *Transaction) error {
		for _, k := range []string{"a", "b", "c", "d"} {
			if err := tx.Set(BucketLabelIndex, []byte(k), []byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	err = env.View(func(tx *Transaction) error {
		cur, err := tx.NewCursor(BucketLabelIndex, true)
		require.NoError(t, err)
		defer cur.Close()

		var got []string
		for cur.SeekRange([]byte("b")); cur.Valid(); cur.Next() {
			got = append(got, string(cur.Key()))
		}
		require.Equal(t, []string{"b", "c", "d"}, got)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateAbortsOnError(t *testing.T) {
	env := openTestEnv(t)
	sentinel := errors.New("boom")

	err := env.Update(func(tx *Transaction) error {
		require.NoError(t, tx.Set(BucketMeta, []byte("k"), []byte("v")))
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	err = env.View(func(tx *Transaction) error {
		_, err := tx.Get(BucketMeta, []byte("k"))
		require.ErrorIs(t, err, storeerr.NotFound)
		return nil
	})
	require.NoError(t, err)
}
