package session

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultNonceStoreSize bounds the number of in-flight sessions a
// [NonceStore] holds when created with a non-positive size.
const DefaultNonceStoreSize = 128

// NonceStore keeps the nonces of in-flight signing sessions in memory,
// keyed by a random session id, for participants that cannot hold a
// [SigningSession] between rounds. Each entry can be taken once. When
// full, the least recently stored session is evicted and can no longer
// be signed. Nothing is ever persisted.
type NonceStore struct {
	mu     sync.Mutex
	cache  *lru.Cache[uuid.UUID, *SigningNonces]
	taking bool
}

// NewNonceStore creates a store holding at most size sessions.
func NewNonceStore(size int) (*NonceStore, error) {
	if size <= 0 {
		size = DefaultNonceStoreSize
	}
	s := &NonceStore{}
	cache, err := lru.NewWithEvict(size, s.onEvict)
	if err != nil {
		return nil, newError(StageNonceStore, UnknownError, err)
	}
	s.cache = cache
	return s, nil
}

// onEvict runs for every entry that leaves the cache, whether taken or
// evicted, and wipes its copy of the nonces.
func (s *NonceStore) onEvict(id uuid.UUID, nonces *SigningNonces) {
	nonces.Clear()
	if !s.taking {
		log.Warnw("signing session evicted before round 2", "session", id.String())
	}
}

// Put stores a copy of nonces and returns the session id to take them
// back with.
func (s *NonceStore) Put(nonces *SigningNonces) (uuid.UUID, error) {
	if nonces == nil || len(nonces.Data) == 0 {
		return uuid.Nil, newError(StageNonceStore, NonceSerializationError, nil).withReason("empty nonces")
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, newError(StageNonceStore, UnknownError, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(id, &SigningNonces{Data: slices.Clone(nonces.Data)})
	return id, nil
}

// Take removes and returns the nonces of session id. Taking a session
// that was already taken, evicted or never stored fails with
// NonceConsumed.
func (s *NonceStore) Take(id uuid.UUID) (*SigningNonces, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.cache.Peek(id)
	if !ok {
		return nil, newError(StageNonceStore, NonceConsumed, nil).withReason("session %s", id)
	}
	out := &SigningNonces{Data: slices.Clone(stored.Data)}

	s.taking = true
	s.cache.Remove(id)
	s.taking = false
	return out, nil
}

// Discard drops a session without signing, for aborted ceremonies.
func (s *NonceStore) Discard(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.taking = true
	s.cache.Remove(id)
	s.taking = false
}

// Len returns the number of sessions awaiting round 2.
func (s *NonceStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}
