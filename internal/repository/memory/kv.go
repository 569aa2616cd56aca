package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/smart-hr-go/internal/repository/keyvalue"
)

// KV is an in-process keyvalue.KV. Transactions are serialised and roll back
// by restoring a snapshot taken when they began.
type KV struct {
	mu   sync.RWMutex
	data map[string][]byte

	txMu sync.Mutex
}

func NewKV() *KV {
	return &KV{data: make(map[string][]byte)}
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	v, ok := k.data[key]
	if !ok {
		return nil, keyvalue.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (k *KV) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	k.data[key] = append([]byte(nil), value...)
	return nil
}

func (k *KV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	delete(k.data, key)
	return nil
}

func (k *KV) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k.txMu.Lock()
	defer k.txMu.Unlock()

	snapshot := k.snapshot()
	defer func() {
		if p := recover(); p != nil {
			k.restore(snapshot)
			panic(p)
		}
	}()

	if err := fn(ctx); err != nil {
		k.restore(snapshot)
		return err
	}
	return nil
}

func (k *KV) snapshot() map[string][]byte {
	k.mu.RLock()
	defer k.mu.RUnlock()

	cp := make(map[string][]byte, len(k.data))
	for key, v := range k.data {
		cp[key] = v
	}
	return cp
}

func (k *KV) restore(snapshot map[string][]byte) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.data = snapshot
}
