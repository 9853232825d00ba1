// ABOUTME: Settings, enabled-origin and reading-position persistence over the cache contract
// ABOUTME: Synced preferences and local device state may live in different backends

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"pagereader-api/core/domain"
	readererrors "pagereader-api/core/errors"
	"pagereader-api/core/interfaces"
)

const (
	settingsKey  = "sync:settings"
	stickyKey    = "local:sticky-origins"
	positionsKey = "local:positions"

	// MaxPositions is the number of reading positions kept per device
	MaxPositions = 50
)

// Store persists reader state. Values never expire.
type Store struct {
	synced interfaces.Cache
	local  interfaces.Cache
	logger interfaces.Logger
	now    func() time.Time

	// mu serializes read-modify-write cycles on the local lists
	mu sync.Mutex
}

// New creates a store. A nil local cache shares the synced one.
func New(synced, local interfaces.Cache, logger interfaces.Logger) *Store {
	if local == nil {
		local = synced
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Store{
		synced: synced,
		local:  local,
		logger: logger,
		now:    time.Now,
	}
}

// LoadSettings returns saved settings, or the defaults when nothing usable is stored
func (s *Store) LoadSettings(ctx context.Context) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	found, err := s.read(ctx, s.synced, settingsKey, &settings)
	if err != nil {
		return domain.DefaultSettings(), err
	}
	if !found {
		return domain.DefaultSettings(), nil
	}
	return settings, nil
}

// SaveSettings writes settings to the synced bucket
func (s *Store) SaveSettings(ctx context.Context, settings domain.Settings) error {
	return s.write(ctx, s.synced, settingsKey, settings)
}

// Origin returns the scheme://host key used for enabled origins
func Origin(u *url.URL) string {
	if u == nil {
		return ""
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}

// IsSticky reports whether reader mode was left enabled on origin
func (s *Store) IsSticky(ctx context.Context, origin string) (bool, error) {
	origins, err := s.stickyOrigins(ctx)
	if err != nil {
		return false, err
	}
	for _, o := range origins {
		if o == origin {
			return true, nil
		}
	}
	return false, nil
}

// AddSticky registers origin as enabled
func (s *Store) AddSticky(ctx context.Context, origin string) error {
	if origin == "" {
		return &readererrors.ValidationError{Field: "origin", Message: "origin is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	origins, err := s.stickyOrigins(ctx)
	if err != nil {
		return err
	}
	for _, o := range origins {
		if o == origin {
			return nil
		}
	}
	return s.write(ctx, s.local, stickyKey, append(origins, origin))
}

// RemoveSticky clears the registration for origin
func (s *Store) RemoveSticky(ctx context.Context, origin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	origins, err := s.stickyOrigins(ctx)
	if err != nil {
		return err
	}
	kept := origins[:0]
	for _, o := range origins {
		if o != origin {
			kept = append(kept, o)
		}
	}
	if len(kept) == len(origins) {
		return nil
	}
	return s.write(ctx, s.local, stickyKey, kept)
}

func (s *Store) stickyOrigins(ctx context.Context) ([]string, error) {
	var origins []string
	found, err := s.read(ctx, s.local, stickyKey, &origins)
	if err != nil || !found {
		return nil, err
	}
	return origins, nil
}

// PositionKey normalizes a source URL to scheme://host/path with a
// lower-cased host, no query or fragment and no trailing slash
func PositionKey(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", &readererrors.ValidationError{Field: "url", Message: err.Error()}
	}
	if u.Scheme == "" || u.Host == "" {
		return "", &readererrors.ValidationError{Field: "url", Message: "absolute URL required"}
	}
	path := strings.TrimRight(u.EscapedPath(), "/")
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + path, nil
}

// SavePosition records a reading position. When more than MaxPositions are
// stored the least recently updated ones are evicted.
func (s *Store) SavePosition(ctx context.Context, sourceURL string, pos domain.ReadingPosition) error {
	key, err := PositionKey(sourceURL)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	positions, err := s.positions(ctx)
	if err != nil {
		return err
	}

	pos.Key = key
	pos.UpdatedAt = s.now()
	positions[key] = pos

	if len(positions) > MaxPositions {
		evictOldest(positions, len(positions)-MaxPositions)
	}
	return s.write(ctx, s.local, positionsKey, positions)
}

// LoadPosition returns the saved position for a source URL
func (s *Store) LoadPosition(ctx context.Context, sourceURL string) (domain.ReadingPosition, bool, error) {
	key, err := PositionKey(sourceURL)
	if err != nil {
		return domain.ReadingPosition{}, false, err
	}
	positions, err := s.positions(ctx)
	if err != nil {
		return domain.ReadingPosition{}, false, err
	}
	pos, ok := positions[key]
	return pos, ok, nil
}

func (s *Store) positions(ctx context.Context) (map[string]domain.ReadingPosition, error) {
	var positions map[string]domain.ReadingPosition
	found, err := s.read(ctx, s.local, positionsKey, &positions)
	if err != nil {
		return nil, err
	}
	if !found || positions == nil {
		positions = make(map[string]domain.ReadingPosition)
	}
	return positions, nil
}

func evictOldest(positions map[string]domain.ReadingPosition, n int) {
	keys := make([]string, 0, len(positions))
	for k := range positions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := positions[keys[i]], positions[keys[j]]
		if a.UpdatedAt.Equal(b.UpdatedAt) {
			return keys[i] < keys[j]
		}
		return a.UpdatedAt.Before(b.UpdatedAt)
	})
	for _, k := range keys[:n] {
		delete(positions, k)
	}
}

// read decodes key into v. Missing keys report false; undecodable values
// are logged and treated as missing.
func (s *Store) read(ctx context.Context, cache interfaces.Cache, key string, v interface{}) (bool, error) {
	if cache == nil {
		return false, nil
	}
	data, err := cache.Get(ctx, key)
	if err != nil {
		if readererrors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn("Discarding undecodable stored value", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false, nil
	}
	return true, nil
}

func (s *Store) write(ctx context.Context, cache interfaces.Cache, key string, v interface{}) error {
	if cache == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := cache.Set(ctx, key, data, 0); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
