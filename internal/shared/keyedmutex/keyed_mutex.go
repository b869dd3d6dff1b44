package keyedmutex

import "sync"

// KeyedMutex は文字列キーごとの排他制御を提供します。
// メールアドレス単位のread-modify-writeを直列化するために使用します。
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New はKeyedMutexの新しいインスタンスを生成します。
func New() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*entry)}
}

// Lock は指定キーのロックを取得し、解放用の関数を返します。
// 同じキーに対する呼び出しは直列化され、異なるキーは並行に進行します。
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		// 待機者がいなくなったエントリは削除してマップの肥大化を防ぐ
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
