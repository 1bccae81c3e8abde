// Package session keeps one map screen per browser.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/google/uuid"

	"bartnow/internal/mapview"
	"bartnow/internal/station"
	"bartnow/internal/storage"
)

// Session is one browser's map screen. All access to the presenter goes
// through Do so events run one at a time.
type Session struct {
	ID string
	// Generation changes every time the session is rebuilt, so a client
	// holding frames from an earlier build knows to redraw from a snapshot.
	Generation string

	mu        sync.Mutex
	presenter *mapview.Presenter
	recorder  *mapview.Recorder
}

// Do runs fn against the presenter and returns the surface operations it produced.
func (s *Session) Do(fn func(p *mapview.Presenter)) mapview.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.presenter)
	return s.recorder.Flush()
}

// DefaultCapacity is used when NewStore is given a capacity below one.
const DefaultCapacity = 1000

// Store caches sessions with LRU eviction and an idle expiry. Evicted
// sessions are rebuilt on demand and get their trip back from the database.
type Store struct {
	cache      gcache.Cache
	ttl        time.Duration
	stations   []station.Station
	diagnostic string
	db         *storage.DB
	logger     *slog.Logger
}

// NewStore creates a Store. diagnostic is shown on every screen when the
// station list failed to load.
func NewStore(stations []station.Station, diagnostic string, db *storage.DB, capacity int, ttl time.Duration, logger *slog.Logger) *Store {
	if capacity <= 0 {
		logger.Warn("invalid session capacity, using default", "capacity", capacity, "default", DefaultCapacity)
		capacity = DefaultCapacity
	}
	s := &Store{
		ttl:        ttl,
		stations:   stations,
		diagnostic: diagnostic,
		db:         db,
		logger:     logger,
	}
	s.cache = gcache.New(capacity).
		LRU().
		Expiration(ttl).
		LoaderFunc(s.load).
		EvictedFunc(func(key, _ interface{}) {
			logger.Debug("session evicted", "session", key)
		}).
		Build()
	return s
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// Get returns the session for id, creating it if needed. Every call pushes
// the session's expiry a full TTL into the future.
func (s *Store) Get(id string) (*Session, error) {
	v, err := s.cache.Get(id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	// gcache counts expiry from insertion, so re-insert to slide it.
	if err := s.cache.SetWithExpire(id, v, s.ttl); err != nil {
		s.logger.Warn("extending session expiry failed", "session", id, "error", err)
	}
	return v.(*Session), nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.Len(true)
}

// SaveSelection persists the session's departure and destination.
func (s *Store) SaveSelection(ctx context.Context, sess *Session) error {
	var dep, dest string
	sess.Do(func(p *mapview.Presenter) {
		st := p.Selection()
		if st.Departure != nil {
			dep = st.Departure.Name
		}
		if st.Destination != nil {
			dest = st.Destination.Name
		}
	})
	return s.db.SaveSelection(ctx, sess.ID, dep, dest)
}

// ForgetSelection drops the persisted trip for a session.
func (s *Store) ForgetSelection(ctx context.Context, sess *Session) error {
	return s.db.DeleteSelection(ctx, sess.ID)
}

func (s *Store) load(key interface{}) (interface{}, error) {
	id, ok := key.(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("invalid session key %v", key)
	}

	rec := &mapview.Recorder{}
	p := mapview.New(s.stations, rec, s.logger)
	if s.diagnostic != "" {
		p.SetDiagnostic(s.diagnostic)
	}
	p.Start()

	sel, err := s.db.LoadSelection(context.Background(), id)
	if err != nil {
		// The screen still works without the old trip.
		s.logger.Warn("restoring selection failed", "session", id, "error", err)
	} else if sel != nil {
		p.RestoreSelection(sel.Departure, sel.Destination)
	}

	// New sessions are drawn from a snapshot, not from the start-up frame.
	rec.Flush()

	s.logger.Debug("session created", "session", id)
	return &Session{ID: id, Generation: uuid.NewString(), presenter: p, recorder: rec}, nil
}
