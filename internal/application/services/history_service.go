package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sehadigital/roomstatus/internal/domain/entities"
	"github.com/sehadigital/roomstatus/internal/sharepoint"
)

// unknownWard is substituted when a record's ward cannot be resolved.
const unknownWard = "Unknown Ward"

// HistoryFilter selects history records. Zero values mean "no clause".
// Dates are calendar days (YYYY-MM-DD); the range is inclusive, expanded
// to whole days in UTC.
type HistoryFilter struct {
	WardID    int
	RoomID    int
	StartDate string
	EndDate   string
}

// Expression renders the filter as a store query expression, clauses
// joined by "and". Values are interpolated as-is; this mirrors the
// store's list-filter convention and is not an escaping layer.
func (f HistoryFilter) Expression() string {
	var clauses []string
	if f.WardID != 0 {
		clauses = append(clauses, fmt.Sprintf("WardId eq %d", f.WardID))
	}
	if f.RoomID != 0 {
		clauses = append(clauses, fmt.Sprintf("RoomId eq '%d'", f.RoomID))
	}
	if f.StartDate != "" {
		clauses = append(clauses, fmt.Sprintf("Timestamp ge '%sT00:00:00Z'", f.StartDate))
	}
	if f.EndDate != "" {
		clauses = append(clauses, fmt.Sprintf("Timestamp le '%sT23:59:59Z'", f.EndDate))
	}
	return strings.Join(clauses, " and ")
}

// HistoryService reads the append-only status-change log and joins each
// record back to its ward's display name.
type HistoryService struct {
	store sharepoint.ListStore
}

// NewHistoryService creates a history reader.
func NewHistoryService(store sharepoint.ListStore) *HistoryService {
	return &HistoryService{store: store}
}

// History fetches records matching the filter. Ward names are resolved
// per record; a failed or empty lookup is logged and replaced with a
// sentinel rather than failing the whole fetch.
func (s *HistoryService) History(ctx context.Context, filter HistoryFilter) ([]entities.HistoryRecord, error) {
	var items []sharepoint.HistoryItem
	if err := s.store.ListItems(ctx, sharepoint.ListHistory, filter.Expression(), &items); err != nil {
		return nil, err
	}

	records := make([]entities.HistoryRecord, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item sharepoint.HistoryItem) {
			defer wg.Done()

			ts, err := time.Parse(time.RFC3339, item.Timestamp)
			if err != nil {
				log.Warn().Str("timestamp", item.Timestamp).Int("record", item.ID).
					Msg("could not parse history timestamp")
			}

			records[i] = entities.HistoryRecord{
				ID:             item.ID,
				RoomID:         item.RoomID,
				WardID:         item.WardID,
				WardName:       s.wardName(ctx, item.WardID),
				PreviousStatus: item.PreviousStatus,
				NewStatus:      item.NewStatus,
				Timestamp:      ts,
				ChangedBy:      item.ChangedBy,
			}
		}(i, item)
	}
	wg.Wait()

	return records, nil
}

// wardName resolves a ward's display name, defaulting to the sentinel on
// any failure.
func (s *HistoryService) wardName(ctx context.Context, wardID int) string {
	var wards []sharepoint.WardItem
	filter := fmt.Sprintf("Id eq %d", wardID)
	if err := s.store.ListItems(ctx, sharepoint.ListWards, filter, &wards); err != nil {
		log.Warn().Err(err).Int("ward", wardID).Msg("could not fetch ward name")
		return unknownWard
	}
	if len(wards) == 0 {
		return unknownWard
	}
	return wards[0].Title
}
