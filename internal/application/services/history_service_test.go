package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sehadigital/roomstatus/internal/application/services"
	"github.com/sehadigital/roomstatus/internal/sharepoint"
)

func TestHistoryFilter_Expression(t *testing.T) {
	cases := []struct {
		name   string
		filter services.HistoryFilter
		want   string
	}{
		{"empty", services.HistoryFilter{}, ""},
		{"ward only", services.HistoryFilter{WardID: 7}, "WardId eq 7"},
		{"room only", services.HistoryFilter{RoomID: 12}, "RoomId eq '12'"},
		{
			"ward and date range",
			services.HistoryFilter{WardID: 7, StartDate: "2024-01-01", EndDate: "2024-01-31"},
			"WardId eq 7 and Timestamp ge '2024-01-01T00:00:00Z' and Timestamp le '2024-01-31T23:59:59Z'",
		},
		{
			"all clauses",
			services.HistoryFilter{WardID: 7, RoomID: 12, StartDate: "2024-01-01", EndDate: "2024-01-31"},
			"WardId eq 7 and RoomId eq '12' and Timestamp ge '2024-01-01T00:00:00Z' and Timestamp le '2024-01-31T23:59:59Z'",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Expression())
		})
	}
}

// historyFixture emulates the store's date filtering so range bounds can
// be checked end to end: items outside the requested window must not
// come back.
func historyFixture(items []sharepoint.HistoryItem) func(list, filter string, out any) error {
	return func(list, filter string, out any) error {
		if list != sharepoint.ListHistory {
			return nil
		}
		var ge, le time.Time
		if raw := filterClause(filter, "Timestamp ge '"); raw != "" {
			ge, _ = time.Parse(time.RFC3339, raw)
		}
		if raw := filterClause(filter, "Timestamp le '"); raw != "" {
			le, _ = time.Parse(time.RFC3339, raw)
		}

		var matched []sharepoint.HistoryItem
		for _, item := range items {
			ts, err := time.Parse(time.RFC3339, item.Timestamp)
			if err != nil {
				continue
			}
			if !ge.IsZero() && ts.Before(ge) {
				continue
			}
			if !le.IsZero() && ts.After(le) {
				continue
			}
			matched = append(matched, item)
		}
		*out.(*[]sharepoint.HistoryItem) = matched
		return nil
	}
}

// filterClause extracts the quoted value following prefix in a filter
// expression, or "" when the clause is absent.
func filterClause(filter, prefix string) string {
	start := strings.Index(filter, prefix)
	if start < 0 {
		return ""
	}
	rest := filter[start+len(prefix):]
	if end := strings.IndexByte(rest, '\''); end >= 0 {
		return rest[:end]
	}
	return ""
}

func TestHistoryService_DateRangeExcludesOutOfWindowRecords(t *testing.T) {
	items := []sharepoint.HistoryItem{
		{ID: 1, RoomID: 5, WardID: 7, NewStatus: "occupied", Timestamp: "2024-01-15T08:00:00Z"},
		{ID: 2, RoomID: 5, WardID: 7, NewStatus: "available", Timestamp: "2024-02-10T08:00:00Z"},
	}

	store := &stubStore{}
	fixture := historyFixture(items)
	store.onList = func(list, filter string, out any) error {
		if list == sharepoint.ListWards {
			*out.(*[]sharepoint.WardItem) = []sharepoint.WardItem{{ID: 7, Title: "ICU"}}
			return nil
		}
		return fixture(list, filter, out)
	}

	service := services.NewHistoryService(store)

	records, err := service.History(context.Background(), services.HistoryFilter{
		WardID:    7,
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, "ICU", records[0].WardName)
	assert.Equal(t, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), records[0].Timestamp)
}

func TestHistoryService_WardLookupFailureIsSwallowed(t *testing.T) {
	store := &stubStore{}
	store.onList = func(list, filter string, out any) error {
		switch list {
		case sharepoint.ListHistory:
			*out.(*[]sharepoint.HistoryItem) = []sharepoint.HistoryItem{
				{ID: 1, RoomID: 5, WardID: 1, PreviousStatus: "available", NewStatus: "occupied", Timestamp: "2024-03-01T09:00:00Z", ChangedBy: "system"},
				{ID: 2, RoomID: 6, WardID: 2, PreviousStatus: "occupied", NewStatus: "available", Timestamp: "2024-03-01T10:00:00Z", ChangedBy: "system"},
				{ID: 3, RoomID: 7, WardID: 3, PreviousStatus: "occupied", NewStatus: "available", Timestamp: "2024-03-01T11:00:00Z", ChangedBy: "system"},
			}
		case sharepoint.ListWards:
			switch filter {
			case "Id eq 1":
				*out.(*[]sharepoint.WardItem) = []sharepoint.WardItem{{ID: 1, Title: "ER"}}
			case "Id eq 2":
				return errors.New("lookup failed")
			case "Id eq 3":
				// No match.
			}
		}
		return nil
	}

	service := services.NewHistoryService(store)

	records, err := service.History(context.Background(), services.HistoryFilter{})

	require.NoError(t, err)
	require.Len(t, records, 3)

	names := map[int]string{}
	for _, record := range records {
		names[record.ID] = record.WardName
	}
	assert.Equal(t, "ER", names[1])
	assert.Equal(t, "Unknown Ward", names[2])
	assert.Equal(t, "Unknown Ward", names[3])
}

func TestHistoryService_ListFailureIsReturned(t *testing.T) {
	store := &stubStore{
		onList: func(list, filter string, out any) error {
			return errors.New("store down")
		},
	}

	service := services.NewHistoryService(store)

	_, err := service.History(context.Background(), services.HistoryFilter{WardID: 7})
	require.Error(t, err)
}
