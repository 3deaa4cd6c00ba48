package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/trackforge/internal/codec"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

// Storage keys.
const (
	KeyCustomMaps       = "trackforge_custom_maps"
	KeyLastDailyRefresh = "trackforge_last_daily_refresh"
)

// Well-known slot names.
const (
	SlotAutosave = "autosave"
	SlotTestMap  = "test_map"
)

// TimeLayout is the ISO-8601 form used for savedAt (millisecond precision, UTC).
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrSlotNotFound is returned when a named slot does not exist.
var ErrSlotNotFound = errors.New("storage: slot not found")

// Slot is a named saved copy of a document.
type Slot struct {
	Name     string
	Document *mapdoc.Document
	SavedAt  time.Time
}

// slotRecord is the persisted shape of a slot.
type slotRecord struct {
	MapData codec.FileDocument `json:"mapData"`
	SavedAt string             `json:"savedAt"`
}

// Gateway stores slots as one JSON object, keyed by slot name, under
// KeyCustomMaps. Slot operations report failure as false and log a warning;
// the caller keeps working with its in-memory document. Writes are
// serialized so concurrent editor sessions do not lose each other's slots.
type Gateway struct {
	mu     sync.Mutex
	kv     KV
	logger *log.Logger
	now    func() time.Time
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger used for storage warnings.
func WithLogger(l *log.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// WithClock overrides the clock used for savedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// NewGateway wraps a KV backend.
func NewGateway(kv KV, opts ...Option) *Gateway {
	g := &Gateway{
		kv:     kv,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Close closes the backend.
func (g *Gateway) Close() error {
	return g.kv.Close()
}

// slotSet is the decoded slot mapping. Records that fail to decode are
// kept verbatim in unreadable and written back untouched.
type slotSet struct {
	records    map[string]slotRecord
	unreadable map[string]json.RawMessage
	// corrupt holds the raw blob when it is not a JSON object at all.
	corrupt string
}

// loadAll reads the slot mapping. A missing key is an empty mapping.
// Unreadable records are logged and skipped; an unreadable blob is logged
// and read as empty.
func (g *Gateway) loadAll(ctx context.Context) (*slotSet, error) {
	raw, ok, err := g.kv.Get(ctx, KeyCustomMaps)
	if err != nil {
		return nil, err
	}
	set := &slotSet{
		records:    make(map[string]slotRecord),
		unreadable: make(map[string]json.RawMessage),
	}
	if !ok || raw == "" {
		return set, nil
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		g.logger.Warn("unreadable slot data", "key", KeyCustomMaps, "err", err)
		set.corrupt = raw
		return set, nil
	}
	for name, data := range entries {
		var rec slotRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			g.logger.Warn("unreadable slot", "slot", name, "err", err)
			set.unreadable[name] = data
			continue
		}
		set.records[name] = rec
	}
	return set, nil
}

// storeAll writes the mapping back. A corrupt blob is first copied to a
// backup key; if that fails nothing is written.
func (g *Gateway) storeAll(ctx context.Context, set *slotSet) error {
	if set.corrupt != "" {
		key := fmt.Sprintf("%s_corrupt_%d", KeyCustomMaps, g.now().UnixMilli())
		if err := g.kv.Set(ctx, key, set.corrupt); err != nil {
			return fmt.Errorf("storage: cannot back up unreadable slots: %w", err)
		}
		g.logger.Warn("backed up unreadable slot data", "key", key)
		set.corrupt = ""
	}
	out := make(map[string]json.RawMessage, len(set.records)+len(set.unreadable))
	for name, data := range set.unreadable {
		out[name] = data
	}
	for name, rec := range set.records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("storage: cannot encode slot %q: %w", name, err)
		}
		out[name] = data
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("storage: cannot encode slots: %w", err)
	}
	return g.kv.Set(ctx, KeyCustomMaps, string(data))
}

// SaveSlot stores a copy of doc under name, replacing any previous slot.
func (g *Gateway) SaveSlot(ctx context.Context, doc *mapdoc.Document, name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	all, err := g.loadAll(ctx)
	if err != nil {
		g.logger.Warn("save failed", "slot", name, "err", err)
		return false
	}
	delete(all.unreadable, name)
	all.records[name] = slotRecord{
		MapData: codec.ToFile(doc),
		SavedAt: g.now().UTC().Format(TimeLayout),
	}
	if err := g.storeAll(ctx, all); err != nil {
		g.logger.Warn("save failed", "slot", name, "err", err)
		return false
	}
	g.logger.Debug("map saved", "slot", name)
	return true
}

// Slot returns the named slot or ErrSlotNotFound.
func (g *Gateway) Slot(ctx context.Context, name string) (*Slot, error) {
	all, err := g.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := all.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, name)
	}
	return rec.slot(name), nil
}

// LoadSlot is Slot with failures folded into false.
func (g *Gateway) LoadSlot(ctx context.Context, name string) (*Slot, bool) {
	s, err := g.Slot(ctx, name)
	if err != nil {
		if !errors.Is(err, ErrSlotNotFound) {
			g.logger.Warn("load failed", "slot", name, "err", err)
		}
		return nil, false
	}
	return s, true
}

// DeleteSlot removes the named slot. It reports false if the slot did not
// exist or the write failed.
func (g *Gateway) DeleteSlot(ctx context.Context, name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	all, err := g.loadAll(ctx)
	if err != nil {
		g.logger.Warn("delete failed", "slot", name, "err", err)
		return false
	}
	_, ok := all.records[name]
	_, bad := all.unreadable[name]
	if !ok && !bad {
		return false
	}
	delete(all.records, name)
	delete(all.unreadable, name)
	if err := g.storeAll(ctx, all); err != nil {
		g.logger.Warn("delete failed", "slot", name, "err", err)
		return false
	}
	return true
}

// ListSlots returns every slot sorted by name.
func (g *Gateway) ListSlots(ctx context.Context) ([]Slot, error) {
	all, err := g.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	slots := make([]Slot, 0, len(all.records))
	for name, rec := range all.records {
		slots = append(slots, *rec.slot(name))
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Name < slots[j].Name
	})
	return slots, nil
}

func (r slotRecord) slot(name string) *Slot {
	s := &Slot{Name: name, Document: r.MapData.Document()}
	if t, err := time.Parse(TimeLayout, r.SavedAt); err == nil {
		s.SavedAt = t
	} else if t, err := time.Parse(time.RFC3339Nano, r.SavedAt); err == nil {
		s.SavedAt = t
	}
	return s
}

// LastDailyRefresh returns the stored daily refresh marker.
func (g *Gateway) LastDailyRefresh(ctx context.Context) (string, bool) {
	v, ok, err := g.kv.Get(ctx, KeyLastDailyRefresh)
	if err != nil {
		g.logger.Warn("cannot read daily refresh", "err", err)
		return "", false
	}
	return v, ok
}

// SetLastDailyRefresh stores the daily refresh marker.
func (g *Gateway) SetLastDailyRefresh(ctx context.Context, value string) bool {
	if err := g.kv.Set(ctx, KeyLastDailyRefresh, value); err != nil {
		g.logger.Warn("cannot write daily refresh", "err", err)
		return false
	}
	return true
}

// ExportToFile writes doc as pretty JSON into dir, named after the map.
// It returns the written path.
func (g *Gateway) ExportToFile(ctx context.Context, doc *mapdoc.Document, dir string) (string, error) {
	return g.ExportToPath(ctx, doc, filepath.Join(dir, codec.SuggestedFilename(doc.Name())))
}

// ExportToPath writes doc to path, choosing JSON or YAML by extension.
func (g *Gateway) ExportToPath(ctx context.Context, doc *mapdoc.Document, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		data []byte
		err  error
	)
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = codec.MarshalYAML(doc)
	default:
		data, err = codec.MarshalJSON(doc)
	}
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: cannot write %s: %w", path, err)
	}
	return path, nil
}

// ImportFromFile reads a map file. The format follows the extension.
func (g *Gateway) ImportFromFile(ctx context.Context, path string) (*mapdoc.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read %s: %w", path, err)
	}
	return g.ImportBytes(data, filepath.Ext(path))
}

// ImportBytes decodes an in-memory map file of the given extension.
func (g *Gateway) ImportBytes(data []byte, ext string) (*mapdoc.Document, error) {
	doc, err := codec.Unmarshal(data, ext)
	if err != nil {
		g.logger.Warn("import failed", "err", err)
		return nil, err
	}
	return doc, nil
}
