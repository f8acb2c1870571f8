package pg

// Store is the Postgres backed storage.Store.
type Store struct {
	*Repository
	*Reader
	pool *ConnectionPool
}

func NewStore(pool *ConnectionPool) *Store {
	return &Store{
		Repository: NewRepository(pool),
		Reader:     NewReader(pool),
		pool:       pool,
	}
}

func (s *Store) Close() {
	s.pool.Close()
}
