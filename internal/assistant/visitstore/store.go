// Package visitstore keeps VIP visits keyed by (visitor, date, time) and mirrors
// them to a durable substrate as a JSON snapshot.
package visitstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "assistant-console/internal/common/errors"
	"assistant-console/internal/common/logger"
	"assistant-console/internal/common/metrics"
	"assistant-console/internal/models"
)

var (
	ErrVisitNotFound      = errors.New("VISIT_NOT_FOUND")
	ErrInvalidVisit       = errors.New("VISIT_VALIDATION_FAILED")
	ErrNaturalKeyConflict = errors.New("NATURAL_KEY_CONFLICT")
)

// Config controls the store. Clock and NewID default to time.Now and uuid.
type Config struct {
	Key          string
	SaveTimeout  time.Duration
	DefaultActor string
	Clock        func() time.Time
	NewID        func() string
}

func DefaultConfig() *Config {
	return &Config{
		Key:          "assistant:vip-visits",
		SaveTimeout:  3 * time.Second,
		DefaultActor: "assistant",
	}
}

// Store is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	visits []*models.VIPVisit // insertion order
	byID   map[string]*models.VIPVisit
	byKey  map[string]*models.VIPVisit

	config  *Config
	persist *persister
	logger  logger.Logger
}

// New loads the snapshot from substrate and starts the background writer. A
// missing, empty or unreadable snapshot yields an empty store.
func New(ctx context.Context, config *Config, substrate Substrate, log logger.Logger) *Store {
	cfg := *config
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 3 * time.Second
	}
	if cfg.DefaultActor == "" {
		cfg.DefaultActor = "assistant"
	}

	log = log.WithFields(map[string]interface{}{"component": "visit-store", "key": cfg.Key})
	s := &Store{
		byID:   make(map[string]*models.VIPVisit),
		byKey:  make(map[string]*models.VIPVisit),
		config: &cfg,
		logger: log,
	}
	s.load(ctx, substrate)
	s.persist = newPersister(substrate, cfg.Key, cfg.SaveTimeout, log)
	return s
}

func (s *Store) load(ctx context.Context, substrate Substrate) {
	data, err := substrate.Load(ctx, s.config.Key)
	if err != nil {
		metrics.VisitStorePersistFailures.WithLabelValues("load").Inc()
		s.logger.Error("failed to load visit snapshot, starting empty", map[string]interface{}{
			"error": apperrors.NewPersistenceLoadFailedError(err),
		})
		return
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return
	}

	var records []models.VIPVisit
	if err := json.Unmarshal(data, &records); err != nil {
		metrics.VisitStorePersistFailures.WithLabelValues("load").Inc()
		s.logger.Error("failed to decode visit snapshot, starting empty", map[string]interface{}{
			"error": apperrors.NewPersistenceLoadFailedError(err),
		})
		return
	}

	for i := range records {
		v := records[i]
		if v.ID == "" {
			v.ID = s.config.NewID()
		}
		key := NaturalKey(v.Visitor, v.Date, v.Time)
		if _, dup := s.byKey[key]; dup {
			s.logger.Warn("dropping visit with duplicate natural key", map[string]interface{}{"visitId": v.ID})
			continue
		}
		if _, dup := s.byID[v.ID]; dup {
			s.logger.Warn("dropping visit with duplicate id", map[string]interface{}{"visitId": v.ID})
			continue
		}
		s.insert(&v, key)
	}
	metrics.VisitStoreRecords.Set(float64(len(s.visits)))
	s.logger.Info("visit snapshot loaded", map[string]interface{}{"visits": len(s.visits)})
}

// Upsert creates a visit or, when one with the same natural key exists, merges
// the candidate into it. Empty optional candidate fields keep stored values.
func (s *Store) Upsert(ctx context.Context, in models.VisitInput) (*models.VIPVisit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in.Visitor = strings.Join(strings.Fields(in.Visitor), " ")
	if err := validateInput(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.config.Clock()
	actor := s.actor(in.Actor)
	key := NaturalKey(in.Visitor, in.Date, in.Time)

	if existing, ok := s.byKey[key]; ok {
		existing.Visitor = in.Visitor
		setIfNotEmpty(&existing.Title, in.Title)
		setIfNotEmpty(&existing.Location, in.Location)
		setIfNotEmpty(&existing.AssignedEscort, in.AssignedEscort)
		if in.ProtocolLevel != "" {
			existing.ProtocolLevel = in.ProtocolLevel
		}
		s.touch(existing, now, actor)
		s.scheduleSave()

		metrics.VisitsUpserted.WithLabelValues("updated").Inc()
		s.logger.Info("visit updated", map[string]interface{}{"visitId": existing.ID, "actor": actor})
		return clone(existing), nil
	}

	level := in.ProtocolLevel
	if level == "" {
		level = models.ProtocolStandard
	}
	visit := &models.VIPVisit{
		ID:             s.config.NewID(),
		Visitor:        in.Visitor,
		Title:          in.Title,
		Date:           in.Date,
		Time:           in.Time,
		Location:       in.Location,
		ProtocolLevel:  level,
		AssignedEscort: in.AssignedEscort,
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedBy:      actor,
		UpdatedBy:      actor,
	}
	s.insert(visit, key)
	s.scheduleSave()

	metrics.VisitsUpserted.WithLabelValues("created").Inc()
	metrics.VisitStoreRecords.Set(float64(len(s.visits)))
	s.logger.Info("visit created", map[string]interface{}{"visitId": visit.ID, "actor": actor})
	return clone(visit), nil
}

// Update applies patch to the visit with id. Moving a visit onto the natural
// key of another visit fails with ErrNaturalKeyConflict.
func (s *Store) Update(ctx context.Context, id string, patch models.VisitPatch) (*models.VIPVisit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVisitNotFound, id)
	}

	next := *current
	applyPatch(&next, patch)
	next.Visitor = strings.Join(strings.Fields(next.Visitor), " ")

	if err := validateInput(models.VisitInput{
		Visitor:       next.Visitor,
		Date:          next.Date,
		Time:          next.Time,
		ProtocolLevel: next.ProtocolLevel,
	}); err != nil {
		return nil, err
	}

	oldKey := NaturalKey(current.Visitor, current.Date, current.Time)
	newKey := NaturalKey(next.Visitor, next.Date, next.Time)
	if newKey != oldKey {
		if other, taken := s.byKey[newKey]; taken && other.ID != id {
			return nil, fmt.Errorf("%w: visit %s already has that visitor, date and time", ErrNaturalKeyConflict, other.ID)
		}
		delete(s.byKey, oldKey)
		s.byKey[newKey] = current
	}

	*current = next
	s.touch(current, s.config.Clock(), s.actor(patch.Actor))
	s.scheduleSave()

	s.logger.Info("visit patched", map[string]interface{}{"visitId": id, "actor": current.UpdatedBy})
	return clone(current), nil
}

// Delete removes the visit with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	visit, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrVisitNotFound, id)
	}

	delete(s.byID, id)
	delete(s.byKey, NaturalKey(visit.Visitor, visit.Date, visit.Time))
	for i, v := range s.visits {
		if v.ID == id {
			s.visits = append(s.visits[:i], s.visits[i+1:]...)
			break
		}
	}
	s.scheduleSave()

	metrics.VisitStoreRecords.Set(float64(len(s.visits)))
	s.logger.Info("visit deleted", map[string]interface{}{"visitId": id})
	return nil
}

func (s *Store) GetByID(id string) (*models.VIPVisit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	visit, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVisitNotFound, id)
	}
	return clone(visit), nil
}

// List returns every visit in insertion order.
func (s *Store) List() []models.VIPVisit {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.VIPVisit, 0, len(s.visits))
	for _, v := range s.visits {
		out = append(out, *v)
	}
	return out
}

// ListUpcoming returns visits scheduled at or after now, interpreted in now's
// location, earliest first. Visits at the same instant keep insertion order.
func (s *Store) ListUpcoming(now time.Time) []models.VIPVisit {
	type scheduled struct {
		at    time.Time
		visit models.VIPVisit
	}

	s.mu.Lock()
	upcoming := make([]scheduled, 0, len(s.visits))
	for _, v := range s.visits {
		at, err := v.Scheduled(now.Location())
		if err != nil || at.Before(now) {
			continue
		}
		upcoming = append(upcoming, scheduled{at: at, visit: *v})
	}
	s.mu.Unlock()

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].at.Before(upcoming[j].at)
	})

	out := make([]models.VIPVisit, 0, len(upcoming))
	for _, u := range upcoming {
		out = append(out, u.visit)
	}
	return out
}

// Len returns the number of stored visits.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visits)
}

// Flush waits until every mutation made so far has been handed to the substrate.
func (s *Store) Flush(ctx context.Context) error {
	return s.persist.waitIdle(ctx)
}

// Close writes any pending snapshot and stops the background writer. Mutations
// after Close still apply in memory but are never persisted; each one logs a
// warning and counts as a "closed" persist failure.
func (s *Store) Close(ctx context.Context) error {
	return s.persist.close(ctx)
}

func (s *Store) insert(v *models.VIPVisit, key string) {
	s.visits = append(s.visits, v)
	s.byID[v.ID] = v
	s.byKey[key] = v
}

// touch moves UpdatedAt forward even when the clock has not advanced.
func (s *Store) touch(v *models.VIPVisit, now time.Time, actor string) {
	if !now.After(v.UpdatedAt) {
		now = v.UpdatedAt.Add(time.Nanosecond)
	}
	v.UpdatedAt = now
	v.UpdatedBy = actor
}

func (s *Store) actor(actor string) string {
	if actor == "" {
		return s.config.DefaultActor
	}
	return actor
}

// scheduleSave must be called with s.mu held so snapshots are queued in mutation order.
func (s *Store) scheduleSave() {
	snapshot := make([]models.VIPVisit, 0, len(s.visits))
	for _, v := range s.visits {
		snapshot = append(snapshot, *v)
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Error("failed to encode visit snapshot", map[string]interface{}{"error": err})
		return
	}
	s.persist.schedule(data)
}

func applyPatch(v *models.VIPVisit, p models.VisitPatch) {
	if p.Visitor != nil {
		v.Visitor = *p.Visitor
	}
	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.Date != nil {
		v.Date = *p.Date
	}
	if p.Time != nil {
		v.Time = *p.Time
	}
	if p.Location != nil {
		v.Location = *p.Location
	}
	if p.ProtocolLevel != nil {
		v.ProtocolLevel = *p.ProtocolLevel
	}
	if p.AssignedEscort != nil {
		v.AssignedEscort = *p.AssignedEscort
	}
}

func setIfNotEmpty(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func clone(v *models.VIPVisit) *models.VIPVisit {
	c := *v
	return &c
}
