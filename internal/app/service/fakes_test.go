package service

import (
	"context"
	"sync"
	"time"

	"media-fetch-bot/internal/domain"
)

type fakeProvider struct {
	name   string
	result *domain.MediaResult
	err    error

	mu    sync.Mutex
	calls int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Fetch(ctx context.Context, sourceURL string) (*domain.MediaResult, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	return p.result, p.err
}

func (p *fakeProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.calls
}

type fakeTable map[domain.Platform]map[domain.ContentType][]domain.Provider

func (t fakeTable) ProvidersFor(platform domain.Platform, contentType domain.ContentType) []domain.Provider {
	return t[platform][contentType]
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]*domain.CacheEntry
	gets    int
	puts    int
	getErr  error
	putErr  error
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]*domain.CacheEntry)}
}

func (c *memCache) Get(ctx context.Context, url string) (*domain.CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}

	return c.entries[url], nil
}

func (c *memCache) Put(ctx context.Context, entry *domain.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	c.entries[entry.SourceURL] = entry

	return nil
}

type memLedger struct {
	mu       sync.Mutex
	counters map[domain.Platform]int64
	logs     []domain.RequestLogEntry
	err      error
}

func newMemLedger() *memLedger {
	return &memLedger{counters: make(map[domain.Platform]int64)}
}

func (l *memLedger) Increment(ctx context.Context, platform domain.Platform) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return l.err
	}
	l.counters[platform]++

	return nil
}

func (l *memLedger) AppendLog(ctx context.Context, platform domain.Platform, url string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return l.err
	}
	l.logs = append(l.logs, domain.RequestLogEntry{Platform: platform, SourceURL: url, Timestamp: time.Now()})

	return nil
}

func (l *memLedger) CountSince(ctx context.Context, platform domain.Platform, since time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return 0, l.err
	}

	var n int64
	for _, e := range l.logs {
		if e.Platform == platform && !e.Timestamp.Before(since) {
			n++
		}
	}

	return n, nil
}

func (l *memLedger) Counters(ctx context.Context) ([]domain.UsageCounter, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return nil, l.err
	}

	out := make([]domain.UsageCounter, 0, len(l.counters))
	for p, n := range l.counters {
		out = append(out, domain.UsageCounter{Platform: p, Count: n})
	}

	return out, nil
}
