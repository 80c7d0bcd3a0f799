// Package local implements core.Store without a relational database.
//
// Submissions are kept as JSON values in a single hash keyed by id, with a
// separate counter for id assignment. The backing KV is either process memory
// or Redis. Filtering and ordering use the same rules as the SQL stores.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/JonMunkholm/contactdesk/internal/core"
	"github.com/JonMunkholm/contactdesk/internal/query"
)

const (
	defaultPrefix = "contactdesk"
	hashSuffix    = ":submissions"
	seqSuffix     = ":submissions:seq"
)

var _ core.Store = (*Store)(nil)

// Store is a KV-backed submissions store.
type Store struct {
	kv     KV
	prefix string
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix namespaces the keys, letting several data sets share one Redis.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithClock overrides the clock used to stamp new submissions.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns a Store over kv.
func New(kv KV, opts ...Option) *Store {
	s := &Store{kv: kv, prefix: defaultPrefix, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewMemory returns a Store backed by process memory.
func NewMemory(opts ...Option) *Store {
	return New(NewMemoryKV(), opts...)
}

func (s *Store) hashKey() string { return s.prefix + hashSuffix }
func (s *Store) seqKey() string  { return s.prefix + seqSuffix }

// Close releases the backing KV.
func (s *Store) Close() {
	_ = s.kv.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

func (s *Store) Create(ctx context.Context, in core.NewSubmission) (*core.Submission, error) {
	id, err := s.kv.Incr(ctx, s.seqKey())
	if err != nil {
		return nil, fmt.Errorf("next submission id: %w", err)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	sub := core.Submission{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		Platform:  in.Platform,
		Timestamp: now,
		CreatedAt: now,
	}

	data, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}
	if err := s.kv.HSet(ctx, s.hashKey(), strconv.FormatInt(id, 10), string(data)); err != nil {
		return nil, fmt.Errorf("save submission %d: %w", id, err)
	}
	return &sub, nil
}

func (s *Store) List(ctx context.Context) ([]core.Submission, error) {
	return s.Query(ctx, core.Filter{})
}

func (s *Store) GetByID(ctx context.Context, id int64) (*core.Submission, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) Query(ctx context.Context, f core.Filter) ([]core.Submission, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := query.Filter(f, all)
	query.Sort(out)
	return out, nil
}

func (s *Store) Stats(ctx context.Context, since time.Time) (*core.Stats, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	byPlatform := make(map[string]*core.PlatformGroup)
	for _, sub := range all {
		g, ok := byPlatform[sub.Platform]
		if !ok {
			g = &core.PlatformGroup{Platform: sub.Platform}
			byPlatform[sub.Platform] = g
		}
		g.Count++
		if !sub.Timestamp.Before(since) {
			g.Recent++
		}
		if sub.Timestamp.After(g.Last) {
			g.Last = sub.Timestamp
		}
	}

	groups := make([]core.PlatformGroup, 0, len(byPlatform))
	for _, g := range byPlatform {
		groups = append(groups, *g)
	}
	return core.StatsFromGroups(groups), nil
}

func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	if err := s.kv.HDel(ctx, s.hashKey(), strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("delete submission %d: %w", id, err)
	}
	return nil
}

// DeleteAll clears the submissions. The id counter is kept so ids are never
// reused.
func (s *Store) DeleteAll(ctx context.Context) error {
	if err := s.kv.Del(ctx, s.hashKey()); err != nil {
		return fmt.Errorf("delete all submissions: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) ([]core.Submission, error) {
	raw, err := s.kv.HGetAll(ctx, s.hashKey())
	if err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}

	subs := make([]core.Submission, 0, len(raw))
	for field, v := range raw {
		var sub core.Submission
		if err := json.Unmarshal([]byte(v), &sub); err != nil {
			return nil, fmt.Errorf("decode submission %s: %w", field, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
