// Package kvtest holds the behaviour every keyvalue.KV backend must share.
package kvtest

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/smart-hr-go/internal/repository/keyvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a backend. newKV must return an empty store on each call.
func Run(t *testing.T, newKV func(t *testing.T) keyvalue.KV) {
	t.Run("missing key", func(t *testing.T) {
		kv := newKV(t)
		_, err := kv.Get(context.Background(), "nope")
		assert.ErrorIs(t, err, keyvalue.ErrKeyNotFound)
	})

	t.Run("put overwrites", func(t *testing.T) {
		kv := newKV(t)
		ctx := context.Background()

		require.NoError(t, kv.Put(ctx, keyvalue.EmployeesKey, []byte(`[{"id":1001}]`)))
		require.NoError(t, kv.Put(ctx, keyvalue.EmployeesKey, []byte(`[{"id":1002}]`)))

		got, err := kv.Get(ctx, keyvalue.EmployeesKey)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":1002}]`, string(got))
	})

	t.Run("delete", func(t *testing.T) {
		kv := newKV(t)
		ctx := context.Background()

		require.NoError(t, kv.Put(ctx, keyvalue.PayrollsKey, []byte(`[]`)))
		require.NoError(t, kv.Delete(ctx, keyvalue.PayrollsKey))
		require.NoError(t, kv.Delete(ctx, keyvalue.PayrollsKey))

		_, err := kv.Get(ctx, keyvalue.PayrollsKey)
		assert.ErrorIs(t, err, keyvalue.ErrKeyNotFound)
	})

	t.Run("transaction commits", func(t *testing.T) {
		kv := newKV(t)
		ctx := context.Background()

		err := kv.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := kv.Put(txCtx, keyvalue.PayrollsKey, []byte(`[{"netPay":1}]`)); err != nil {
				return err
			}
			got, err := kv.Get(txCtx, keyvalue.PayrollsKey)
			if err != nil {
				return err
			}
			assert.JSONEq(t, `[{"netPay":1}]`, string(got))
			return kv.Put(txCtx, keyvalue.EmployeesKey, []byte(`[{"id":1001}]`))
		})
		require.NoError(t, err)

		_, err = kv.Get(ctx, keyvalue.PayrollsKey)
		assert.NoError(t, err)
		_, err = kv.Get(ctx, keyvalue.EmployeesKey)
		assert.NoError(t, err)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		kv := newKV(t)
		ctx := context.Background()
		require.NoError(t, kv.Put(ctx, keyvalue.EmployeesKey, []byte(`[{"id":1001}]`)))

		boom := errors.New("boom")
		err := kv.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := kv.Put(txCtx, keyvalue.PayrollsKey, []byte(`[{"netPay":1}]`)); err != nil {
				return err
			}
			if err := kv.Put(txCtx, keyvalue.EmployeesKey, []byte(`[{"id":1002}]`)); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = kv.Get(ctx, keyvalue.PayrollsKey)
		assert.ErrorIs(t, err, keyvalue.ErrKeyNotFound)

		got, err := kv.Get(ctx, keyvalue.EmployeesKey)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":1001}]`, string(got))
	})
}
