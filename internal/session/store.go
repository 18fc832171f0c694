package session

// Store keeps sessions by token. Expired sessions are never returned.
type Store interface {
	Open(token string, s Session) (Session, error)
	Get(token string) (Session, bool)
	Close(token string)
	// Sweep drops expired sessions and reports how many went.
	Sweep() int
}

var (
	_ Store = (*Registry)(nil)
	_ Store = (*RedisStore)(nil)
)
