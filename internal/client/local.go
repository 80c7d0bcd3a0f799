package client

import (
	"context"
	"io"

	"github.com/JonMunkholm/contactdesk/internal/core"
)

// Local serves the DataCentre operations from an in-process service, for
// offline use against a memory or Redis store.
type Local struct {
	svc *core.Service
}

var _ DataCentre = (*Local)(nil)

// NewLocal returns a Local over svc.
func NewLocal(svc *core.Service) *Local {
	return &Local{svc: svc}
}

func (l *Local) Health(ctx context.Context) (*Health, error) {
	h := &Health{Status: "OK", Message: "Local data centre", Database: "Connected"}
	if st := l.svc.Health(ctx); !st.Connected {
		h.Database = "Disconnected"
		if st.Err != nil {
			h.Error = st.Err.Error()
		}
	}
	return h, nil
}

func (l *Local) Save(ctx context.Context, in core.NewSubmission) (*core.Submission, error) {
	return l.svc.Create(ctx, in)
}

func (l *Local) All(ctx context.Context) ([]core.Submission, error) {
	return l.svc.List(ctx)
}

func (l *Local) Get(ctx context.Context, id int64) (*core.Submission, error) {
	return l.svc.Get(ctx, id)
}

func (l *Local) Query(ctx context.Context, req core.FilterRequest) ([]core.Submission, error) {
	f, err := req.Filter()
	if err != nil {
		return nil, err
	}
	return l.svc.Query(ctx, f)
}

func (l *Local) Stats(ctx context.Context) (*core.Stats, error) {
	return l.svc.Stats(ctx)
}

func (l *Local) ExportCSV(ctx context.Context) ([]byte, error) {
	data, _, err := l.svc.ExportCSV(ctx)
	return data, err
}

func (l *Local) ImportCSV(ctx context.Context, r io.Reader) (*core.ImportResult, error) {
	return l.svc.ImportCSV(ctx, r)
}

func (l *Local) Delete(ctx context.Context, id int64) error {
	return l.svc.Delete(ctx, id)
}

func (l *Local) Clear(ctx context.Context) error {
	return l.svc.DeleteAll(ctx)
}
