package session

import (
	"fmt"
	"time"

	"stocksense/pkg/cache"
	"stocksense/pkg/common"
)

// Store keeps sessions in the in-memory cache; they are lost on restart.
type Store struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewStore(c cache.Cache, ttl time.Duration) *Store {
	return &Store{cache: c, ttl: ttl}
}

func key(id string) string {
	return fmt.Sprintf(common.KEY_SESSION, id)
}

func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	return cache.GetFromCache[*Session](s.cache, key(id))
}

// Create registers a fresh anonymous session.
func (s *Store) Create() *Session {
	sess := New()
	s.Save(sess)
	return sess
}

// Save refreshes the TTL.
func (s *Store) Save(sess *Session) {
	s.cache.Set(key(sess.ID), sess, s.ttl)
}

func (s *Store) Delete(id string) {
	s.cache.Delete(key(id))
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}
