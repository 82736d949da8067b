package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sehadigital/roomstatus/internal/domain/entities"
	"github.com/sehadigital/roomstatus/internal/infrastructure/observability"
	"github.com/sehadigital/roomstatus/internal/sharepoint"
	"github.com/sehadigital/roomstatus/pkg/apperrors"
)

// changedBy is the fixed author marker written to every history record.
const changedBy = "system"

// RoomService reads a ward's rooms and performs status changes. A status
// change is two independent store calls — update the room, then append a
// history record — with no atomicity between them: if the append fails
// after the update succeeded, the store is left with a changed room and a
// missing history entry. No rollback is attempted; callers see only the
// error of the call that failed.
type RoomService struct {
	store    sharepoint.ListStore
	interval time.Duration
	metrics  *observability.Metrics

	mu    sync.RWMutex
	cache map[int][]entities.Room
}

// NewRoomService creates a room aggregator.
func NewRoomService(store sharepoint.ListStore, interval time.Duration, metrics *observability.Metrics) *RoomService {
	return &RoomService{
		store:    store,
		interval: interval,
		metrics:  metrics,
		cache:    make(map[int][]entities.Room),
	}
}

// Rooms fetches one ward's rooms, lower-casing stored statuses for
// display. The fetched list replaces the ward's cached snapshot.
func (s *RoomService) Rooms(ctx context.Context, wardID int) ([]entities.Room, error) {
	var items []sharepoint.RoomItem
	filter := fmt.Sprintf("WardId eq %d", wardID)
	if err := s.store.ListItems(ctx, sharepoint.ListRooms, filter, &items); err != nil {
		return nil, err
	}

	rooms := make([]entities.Room, len(items))
	for i, item := range items {
		status := strings.ToLower(item.Status)
		if status == "" {
			status = string(entities.StatusAvailable)
		}
		rooms[i] = entities.Room{
			ID:          item.ID,
			Number:      item.Title,
			Status:      entities.Status(status),
			WardID:      wardID,
			LastUpdated: item.LastUpdated,
		}
	}

	s.mu.Lock()
	s.cache[wardID] = rooms
	s.mu.Unlock()

	return rooms, nil
}

// CachedRooms returns the ward's snapshot from the last successful fetch.
func (s *RoomService) CachedRooms(wardID int) []entities.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[wardID]
}

// PollWard re-fetches one ward's rooms on the configured interval until
// ctx is cancelled, emitting each successful snapshot on out. In-flight
// fetches at cancellation are not aborted; their results are discarded.
func (s *RoomService) PollWard(ctx context.Context, wardID int, out chan<- []entities.Room) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rooms, err := s.Rooms(ctx, wardID)
			observability.RecordPollCycle(ctx, s.metrics, "rooms", err)
			if err != nil {
				log.Warn().Err(err).Int("ward", wardID).Msg("room poll failed; keeping previous snapshot")
				continue
			}
			select {
			case out <- rooms:
			case <-ctx.Done():
				return
			}
		}
	}
}

// UpdateRoomStatus changes one room's status. Ordering is strict: the
// room update is issued and awaited before the history append begins, so
// history only ever describes changes that were actually applied. The
// pair is not transactional; a failed append leaves the updated room
// without a history entry.
func (s *RoomService) UpdateRoomStatus(ctx context.Context, wardID, roomID int, newStatus entities.Status, ts time.Time) error {
	if !entities.IsCanonical(newStatus) {
		return apperrors.NewValidationError(fmt.Sprintf("invalid status %q", newStatus))
	}

	previous := "unknown"
	for _, room := range s.CachedRooms(wardID) {
		if room.ID == roomID {
			previous = string(room.Status)
			break
		}
	}

	if err := s.store.UpdateItem(ctx, sharepoint.ListRooms, roomID, map[string]any{
		"Status":      string(newStatus),
		"LastUpdated": ts.UTC().Format(time.RFC3339),
	}); err != nil {
		return err
	}

	if err := s.store.AddItem(ctx, sharepoint.ListHistory, map[string]any{
		"RoomId":         roomID,
		"WardId":         wardID,
		"PreviousStatus": previous,
		"NewStatus":      string(newStatus),
		"Timestamp":      ts.UTC().Format(time.RFC3339),
		"ChangedBy":      changedBy,
	}, nil); err != nil {
		return err
	}

	_, err := s.Rooms(ctx, wardID)
	return err
}

// ClearAllRooms marks every cached room of the ward available, appending
// one history record per room. Updates and appends for all rooms are
// issued as one concurrent batch and awaited together, so the
// update/append gap of UpdateRoomStatus is multiplied across the whole
// ward. Previous statuses come from the local cache even if it is stale
// relative to the store at the moment of the batch.
func (s *RoomService) ClearAllRooms(ctx context.Context, wardID int) error {
	rooms := s.CachedRooms(wardID)
	if rooms == nil {
		fetched, err := s.Rooms(ctx, wardID)
		if err != nil {
			return err
		}
		rooms = fetched
	}

	ts := time.Now().UTC().Format(time.RFC3339)

	var wg sync.WaitGroup
	errs := make([]error, 2*len(rooms))

	for i, room := range rooms {
		wg.Add(2)
		go func(i int, roomID int) {
			defer wg.Done()
			errs[2*i] = s.store.UpdateItem(ctx, sharepoint.ListRooms, roomID, map[string]any{
				"Status":      string(entities.StatusAvailable),
				"LastUpdated": ts,
			})
		}(i, room.ID)
		go func(i int, room entities.Room) {
			defer wg.Done()
			errs[2*i+1] = s.store.AddItem(ctx, sharepoint.ListHistory, map[string]any{
				"RoomId":         room.ID,
				"WardId":         wardID,
				"PreviousStatus": string(room.Status),
				"NewStatus":      string(entities.StatusAvailable),
				"Timestamp":      ts,
				"ChangedBy":      changedBy,
			}, nil)
		}(i, room)
	}
	wg.Wait()

	batchErr := errors.Join(errs...)

	if _, err := s.Rooms(ctx, wardID); err != nil && batchErr == nil {
		return err
	}
	return batchErr
}
