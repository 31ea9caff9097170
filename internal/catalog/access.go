package catalog

import (
	"context"
	"log/slog"
	"time"
)

// Source names the collection that answered a call.
type Source string

const (
	SourceRecordStore   Source = "record-store"
	SourceFallbackCache Source = "fallback-cache"
	SourceNone          Source = "none"
)

// UpdateResult mirrors the wire shape of the admin update route.
type UpdateResult struct {
	Success bool           `json:"success"`
	Service *ServiceRecord `json:"service,omitempty"`
	Message string         `json:"message,omitempty"`
	Source  Source         `json:"-"`
	Kind    OutcomeKind    `json:"-"`
}

// TokenSource returns the bearer credential of the signed-in principal, or
// "" when nobody is signed in.
type TokenSource func() string

type Options struct {
	// FallbackOnRejection makes a write rejected by the record store fall back
	// to the cache. Defaults to true.
	FallbackOnRejection *bool
	Token               TokenSource
	Now                 func() time.Time
	IDs                 *IDGenerator
	Logger              *slog.Logger
}

// AccessLayer reads and writes service records through the record store and
// degrades to the fallback cache when the store can't be reached. Each call
// tries the store once; nothing is remembered between calls.
type AccessLayer struct {
	store               RecordStore
	cache               *FallbackCache
	token               TokenSource
	fallbackOnRejection bool
	now                 func() time.Time
	ids                 *IDGenerator
	log                 *slog.Logger
}

func NewAccessLayer(store RecordStore, cache *FallbackCache, opts Options) *AccessLayer {
	a := &AccessLayer{
		store:               store,
		cache:               cache,
		token:               opts.Token,
		fallbackOnRejection: true,
		now:                 opts.Now,
		ids:                 opts.IDs,
		log:                 opts.Logger,
	}
	if opts.FallbackOnRejection != nil {
		a.fallbackOnRejection = *opts.FallbackOnRejection
	}
	if a.token == nil {
		a.token = func() string { return "" }
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.ids == nil {
		a.ids = defaultIDs
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	return a
}

func (a *AccessLayer) Cache() *FallbackCache {
	return a.cache
}

// List returns every record. Records from the store come newest first; the
// cache is returned in its natural order.
func (a *AccessLayer) List(ctx context.Context) ([]ServiceRecord, Source) {
	out := a.store.List(ctx)
	if out.Kind == OutcomeOK {
		return out.Value, SourceRecordStore
	}
	a.logFallback("list", out.Kind, out.Err)
	return a.cache.All(), SourceFallbackCache
}

// GetByID returns nil when the record does not exist in whichever source
// answered. A not-found from the store is final.
func (a *AccessLayer) GetByID(ctx context.Context, id string) (*ServiceRecord, Source) {
	out := a.store.Get(ctx, id)
	switch out.Kind {
	case OutcomeOK:
		rec := out.Value
		return &rec, SourceRecordStore
	case OutcomeNotFound:
		return nil, SourceRecordStore
	}
	a.logFallback("get", out.Kind, out.Err)
	if rec, ok := a.cache.Find(id); ok {
		return &rec, SourceFallbackCache
	}
	return nil, SourceFallbackCache
}

// Create stores a new record. When the store can't take it the record is
// minted here, put at the front of the cache and persisted.
func (a *AccessLayer) Create(ctx context.Context, payload CreatePayload) (ServiceRecord, Source) {
	out := a.store.Create(ctx, payload)
	if out.Kind == OutcomeOK {
		return out.Value, SourceRecordStore
	}
	if out.Kind == OutcomeRejected {
		a.log.Warn("record store rejected create, keeping it locally", "reason", out.Reason)
	} else {
		a.logFallback("create", out.Kind, out.Err)
	}

	now := a.now()
	rec := NewRecord(payload, a.ids.Next(now), now)
	a.cache.Prepend(rec)
	return rec, SourceFallbackCache
}

// Update changes a record. With a credential it goes through the privileged
// route first; a not-found there is final, any other failure falls back to
// a merge into the cache. Without a credential the store is not contacted.
func (a *AccessLayer) Update(ctx context.Context, id string, patch Patch) UpdateResult {
	if token := a.token(); token != "" {
		out := a.store.AdminUpdate(ctx, token, id, patch)
		switch out.Kind {
		case OutcomeOK:
			rec := out.Value
			return UpdateResult{Success: true, Service: &rec, Source: SourceRecordStore, Kind: out.Kind}
		case OutcomeNotFound:
			return UpdateResult{Message: "Service not found", Source: SourceRecordStore, Kind: out.Kind}
		case OutcomeRejected:
			if !a.fallbackOnRejection {
				return UpdateResult{Message: rejectionMessage(out.Reason), Source: SourceRecordStore, Kind: out.Kind}
			}
			a.log.Warn("record store rejected update, applying it locally", "id", id, "reason", out.Reason)
		default:
			a.logFallback("update", out.Kind, out.Err)
		}
	}
	return a.updateCache(id, patch)
}

func (a *AccessLayer) updateCache(id string, patch Patch) UpdateResult {
	rec, found, err := a.cache.Update(id, patch, MergeUpdateTable)
	if !found {
		return UpdateResult{Message: "Not found (mock)", Source: SourceFallbackCache, Kind: OutcomeNotFound}
	}
	if err != nil {
		return UpdateResult{Message: err.Error(), Source: SourceFallbackCache, Kind: OutcomeRejected}
	}
	a.log.Debug("service updated in fallback cache", "id", id, "fields", MergeUpdateTable.Fields(patch))
	return UpdateResult{Success: true, Service: &rec, Source: SourceFallbackCache, Kind: OutcomeOK}
}

// AdminUpdate is the privileged path: it needs a credential, goes to the
// record store only and never falls back.
func (a *AccessLayer) AdminUpdate(ctx context.Context, token, id string, patch Patch) UpdateResult {
	if token == "" {
		return UpdateResult{Message: "Unauthorized", Source: SourceNone, Kind: OutcomeDenied}
	}
	out := a.store.AdminUpdate(ctx, token, id, patch)
	switch out.Kind {
	case OutcomeOK:
		rec := out.Value
		return UpdateResult{Success: true, Service: &rec, Source: SourceRecordStore, Kind: out.Kind}
	case OutcomeNotFound:
		return UpdateResult{Message: "Service not found", Source: SourceRecordStore, Kind: out.Kind}
	case OutcomeDenied:
		msg := out.Reason
		if msg == "" {
			msg = "Admin access required"
		}
		return UpdateResult{Message: msg, Source: SourceRecordStore, Kind: out.Kind}
	case OutcomeRejected:
		return UpdateResult{Message: rejectionMessage(out.Reason), Source: SourceRecordStore, Kind: out.Kind}
	default:
		a.log.Error("admin update failed", "id", id, "error", out.Err)
		return UpdateResult{Message: "Failed to update service", Source: SourceNone, Kind: out.Kind}
	}
}

func (a *AccessLayer) logFallback(op string, kind OutcomeKind, err error) {
	a.log.Info("record store unavailable, using fallback cache", "op", op, "outcome", kind.String(), "error", err)
}

func rejectionMessage(reason string) string {
	if reason == "" {
		return "Failed to update service"
	}
	return reason
}
