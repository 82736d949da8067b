package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sehadigital/roomstatus/internal/domain/entities"
	"github.com/sehadigital/roomstatus/internal/sharepoint"
	"github.com/sehadigital/roomstatus/pkg/apperrors"
)

// AdminService covers the admin-only additions: new wards and new rooms.
// Neither entity has an update or delete path in this system.
type AdminService struct {
	store sharepoint.ListStore
}

// NewAdminService creates an admin service.
func NewAdminService(store sharepoint.ListStore) *AdminService {
	return &AdminService{store: store}
}

// AddWard creates a ward after checking the name is not already taken
// (case-insensitive, matching the store's Title field).
func (s *AdminService) AddWard(ctx context.Context, name, icon, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationError("ward name is required")
	}

	var wards []sharepoint.WardItem
	if err := s.store.ListItems(ctx, sharepoint.ListWards, "", &wards); err != nil {
		return err
	}
	for _, ward := range wards {
		if strings.EqualFold(ward.Title, name) {
			return apperrors.NewConflictError("a ward with this name already exists")
		}
	}

	return s.store.AddItem(ctx, sharepoint.ListWards, map[string]any{
		"Title":       name,
		"Icon":        icon,
		"Description": description,
	}, nil)
}

// AddRoom creates a room in a ward after checking the number is unique
// within that ward. The room starts in the given status, or available
// when none is supplied.
func (s *AdminService) AddRoom(ctx context.Context, wardID int, number string, status entities.Status) error {
	number = strings.TrimSpace(number)
	if number == "" || wardID == 0 {
		return apperrors.NewValidationError("room number and ward are required")
	}
	if status == "" {
		status = entities.StatusAvailable
	}
	if !entities.IsCanonical(status) {
		return apperrors.NewValidationError(fmt.Sprintf("invalid status %q", status))
	}

	wardName, err := s.wardTitle(ctx, wardID)
	if err != nil {
		return err
	}

	var existing []sharepoint.RoomItem
	filter := fmt.Sprintf("Title eq '%s' and WardId eq %d", number, wardID)
	if err := s.store.ListItems(ctx, sharepoint.ListRooms, filter, &existing); err != nil {
		return err
	}
	if len(existing) > 0 {
		return apperrors.NewConflictError("a room with this number already exists in the selected ward")
	}

	return s.store.AddItem(ctx, sharepoint.ListRooms, map[string]any{
		"Title":       number,
		"Status":      string(status),
		"WardId":      wardID,
		"WardName":    wardName,
		"LastUpdated": time.Now().UTC().Format(time.RFC3339),
	}, nil)
}

func (s *AdminService) wardTitle(ctx context.Context, wardID int) (string, error) {
	var wards []sharepoint.WardItem
	filter := fmt.Sprintf("Id eq %d", wardID)
	if err := s.store.ListItems(ctx, sharepoint.ListWards, filter, &wards); err != nil {
		return "", err
	}
	if len(wards) == 0 {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("ward %d not found", wardID))
	}
	return wards[0].Title, nil
}
