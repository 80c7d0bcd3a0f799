package client

import (
	"context"
	"errors"
	"io"

	"github.com/JonMunkholm/contactdesk/internal/core"
	"github.com/JonMunkholm/contactdesk/internal/logging"
)

// Facade is the caller-friendly front of a DataCentre.
//
// Save failures come back as *SaveError. All, Query and Stats never fail:
// an error is logged and an empty result returned, so a listing stays usable
// while the server is down. Everything else passes errors through.
type Facade struct {
	dc DataCentre
}

// NewFacade wraps dc.
func NewFacade(dc DataCentre) *Facade {
	return &Facade{dc: dc}
}

// Health reports server and store status. A server that cannot be reached
// is reported as such rather than as an error.
func (f *Facade) Health(ctx context.Context) *Health {
	h, err := f.dc.Health(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("health check failed", "error", err)
		return &Health{Status: "Unreachable", Database: "Disconnected", Error: err.Error()}
	}
	return h
}

// Save stores a submission.
func (f *Facade) Save(ctx context.Context, in core.NewSubmission) (*core.Submission, error) {
	sub, err := f.dc.Save(ctx, in)
	if err != nil {
		se := classifySave(err)
		logging.FromContext(ctx).Warn("save failed", "kind", se.Kind.String(), "error", err)
		return nil, se
	}
	return sub, nil
}

// All returns every submission, or none if the data centre failed.
func (f *Facade) All(ctx context.Context) []core.Submission {
	subs, err := f.dc.All(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list contacts failed", "error", err)
		return []core.Submission{}
	}
	return subs
}

// Query returns the matching submissions, or none if the data centre failed.
func (f *Facade) Query(ctx context.Context, req core.FilterRequest) []core.Submission {
	subs, err := f.dc.Query(ctx, req)
	if err != nil {
		logging.FromContext(ctx).Error("query contacts failed", "error", err)
		return []core.Submission{}
	}
	return subs
}

// Stats returns the summary, or zeroed stats if the data centre failed.
func (f *Facade) Stats(ctx context.Context) *core.Stats {
	stats, err := f.dc.Stats(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("stats failed", "error", err)
		return &core.Stats{PlatformBreakdown: []core.PlatformCount{}}
	}
	return stats
}

func (f *Facade) Get(ctx context.Context, id int64) (*core.Submission, error) {
	return f.dc.Get(ctx, id)
}

// ExportCSV returns the CSV export. An empty data centre yields core.ErrNoData.
func (f *Facade) ExportCSV(ctx context.Context) ([]byte, error) {
	return f.dc.ExportCSV(ctx)
}

func (f *Facade) ImportCSV(ctx context.Context, r io.Reader) (*core.ImportResult, error) {
	return f.dc.ImportCSV(ctx, r)
}

// Delete removes one submission. A missing id is not an error.
func (f *Facade) Delete(ctx context.Context, id int64) error {
	err := f.dc.Delete(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	return err
}

func (f *Facade) Clear(ctx context.Context) error {
	return f.dc.Clear(ctx)
}
