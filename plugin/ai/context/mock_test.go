package context

import (
	"context"
	"time"
)

// fakeAdapter serves canned records for one category and can be forced to
// fail to exercise partial-result behavior.
type fakeAdapter struct {
	category string
	records  []*RawRecord
	err      error
}

func (a *fakeAdapter) Category() string {
	return a.category
}

func (a *fakeAdapter) FetchRecent(_ context.Context, _ int32, limit int) ([]*RawRecord, error) {
	if a.err != nil {
		return nil, a.err
	}
	if limit < len(a.records) {
		return a.records[:limit], nil
	}
	return a.records, nil
}

func (a *fakeAdapter) FetchWindow(_ context.Context, _ int32, start, end time.Time, limit int) ([]*RawRecord, error) {
	if a.err != nil {
		return nil, a.err
	}
	matched := []*RawRecord{}
	for _, r := range a.records {
		if !r.Timestamp.Before(start) && !r.Timestamp.After(end) {
			matched = append(matched, r)
		}
	}
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// fakeMemoryProvider keeps memories in a slice, newest first by CreatedTs.
type fakeMemoryProvider struct {
	memories []*Memory
	listErr  error
	getErr   error
	cleaned  int
}

func (p *fakeMemoryProvider) ListActive(_ context.Context, userID int32, limit int) ([]*Memory, error) {
	if p.listErr != nil {
		return nil, p.listErr
	}
	active := []*Memory{}
	for _, m := range p.memories {
		if m.CreatorID == userID && m.Active {
			active = append(active, m)
		}
		if len(active) == limit {
			break
		}
	}
	return active, nil
}

func (p *fakeMemoryProvider) Get(_ context.Context, uid string) (*Memory, error) {
	if p.getErr != nil {
		return nil, p.getErr
	}
	for _, m := range p.memories {
		if m.UID == uid {
			return m, nil
		}
	}
	return nil, nil
}

func (p *fakeMemoryProvider) CleanupExpired(_ context.Context, _ int32) (int, error) {
	removed := p.cleaned
	p.cleaned = 0
	return removed, nil
}
