package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sehadigital/roomstatus/internal/domain/entities"
	"github.com/sehadigital/roomstatus/internal/infrastructure/observability"
	"github.com/sehadigital/roomstatus/internal/sharepoint"
)

// WardSummaryService aggregates live room data into per-ward occupancy
// counts. Every cycle recomputes the whole board from the store; nothing
// survives a cycle except the last good snapshot, which is kept when a
// cycle fails.
type WardSummaryService struct {
	store    sharepoint.ListStore
	interval time.Duration
	metrics  *observability.Metrics

	mu     sync.RWMutex
	cached []entities.WardSummary
}

// NewWardSummaryService creates a ward summary aggregator.
func NewWardSummaryService(store sharepoint.ListStore, interval time.Duration, metrics *observability.Metrics) *WardSummaryService {
	return &WardSummaryService{
		store:    store,
		interval: interval,
		metrics:  metrics,
	}
}

// Summaries performs one aggregation cycle: fetch all wards, then each
// ward's rooms concurrently, and tally statuses into the three known
// buckets. Stored statuses are lower-cased but not normalized here, so an
// unrecognized value is dropped from the buckets while still counting
// toward TotalRooms. That discrepancy is deliberate, documented behavior.
func (s *WardSummaryService) Summaries(ctx context.Context) ([]entities.WardSummary, error) {
	var wards []sharepoint.WardItem
	if err := s.store.ListItems(ctx, sharepoint.ListWards, "", &wards); err != nil {
		return nil, err
	}

	summaries := make([]entities.WardSummary, len(wards))
	errs := make([]error, len(wards))

	var wg sync.WaitGroup
	for i, ward := range wards {
		wg.Add(1)
		go func(i int, ward sharepoint.WardItem) {
			defer wg.Done()
			summary, err := s.summarizeWard(ctx, ward)
			if err != nil {
				errs[i] = err
				return
			}
			summaries[i] = summary
		}(i, ward)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.cached = summaries
	s.mu.Unlock()

	return summaries, nil
}

func (s *WardSummaryService) summarizeWard(ctx context.Context, ward sharepoint.WardItem) (entities.WardSummary, error) {
	var rooms []sharepoint.RoomItem
	filter := fmt.Sprintf("WardId eq %d", ward.ID)
	if err := s.store.ListItems(ctx, sharepoint.ListRooms, filter, &rooms); err != nil {
		return entities.WardSummary{}, err
	}

	counts := map[entities.Status]int{
		entities.StatusAvailable:   0,
		entities.StatusOccupied:    0,
		entities.StatusForCleaning: 0,
	}
	for _, room := range rooms {
		status := strings.ToLower(room.Status)
		if status == "" {
			status = string(entities.StatusAvailable)
		}
		if _, known := counts[entities.Status(status)]; known {
			counts[entities.Status(status)]++
		}
	}

	return entities.WardSummary{
		WardID:     ward.ID,
		Name:       ward.Title,
		Icon:       ward.Icon,
		RoomCounts: counts,
		TotalRooms: len(rooms),
	}, nil
}

// Cached returns the snapshot from the last successful cycle.
func (s *WardSummaryService) Cached() []entities.WardSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached
}

// Run re-polls on the configured interval until ctx is cancelled. Cycles
// are independent; a failed cycle logs and leaves the previous snapshot
// in place.
func (s *WardSummaryService) Run(ctx context.Context) {
	s.poll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *WardSummaryService) poll(ctx context.Context) {
	_, err := s.Summaries(ctx)
	observability.RecordPollCycle(ctx, s.metrics, "wards", err)
	if err != nil {
		log.Warn().Err(err).Msg("ward summary poll failed; keeping previous snapshot")
	}
}
