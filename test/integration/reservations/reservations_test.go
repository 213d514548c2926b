package reservations

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"huddle/test/integration/testutil"
)

// The suite needs both services running: rooms to provision a test room
// and reservations for the booking flow itself.
func setup(t *testing.T) (rooms, reservations *testutil.Client, roomID string) {
	t.Helper()

	rooms = testutil.NewClient(t, "ROOMS_SERVICE_URL")
	reservations = testutil.NewClient(t, "RESERVATIONS_SERVICE_URL")
	rooms.WaitForHealthy(t, 30*time.Second)
	reservations.WaitForHealthy(t, 30*time.Second)

	resp := rooms.POST(t, "/api/v1/rooms", map[string]any{
		"name":     fmt.Sprintf("Booking Room %d", time.Now().UnixNano()),
		"capacity": 6,
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	roomID = testutil.ExtractID(t, resp)

	t.Cleanup(func() {
		rooms.DELETE(t, "/api/v1/rooms/id/"+roomID)
	})

	return rooms, reservations, roomID
}

func reservationBody(roomID string, start, end time.Time) map[string]any {
	return map[string]any{
		"room_id":     roomID,
		"reserved_by": "Alice Smith",
		"title":       "Sprint planning",
		"start_time":  start.Format(time.RFC3339),
		"end_time":    end.Format(time.RFC3339),
	}
}

func TestOverlapRejected(t *testing.T) {
	_, reservations, roomID := setup(t)

	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	resp := reservations.POST(t, "/api/v1/reservations", reservationBody(roomID, base, base.Add(time.Hour)))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	resp = reservations.POST(t, "/api/v1/reservations", reservationBody(roomID, base.Add(30*time.Minute), base.Add(90*time.Minute)))
	testutil.AssertStatusCode(t, resp, http.StatusConflict)
	testutil.AssertContains(t, resp, "Alice Smith")
}

func TestBackToBackAllowed(t *testing.T) {
	_, reservations, roomID := setup(t)

	base := time.Now().Add(48 * time.Hour).Truncate(time.Hour)

	resp := reservations.POST(t, "/api/v1/reservations", reservationBody(roomID, base, base.Add(time.Hour)))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	// Starts exactly when the first ends; half-open intervals do not touch.
	resp = reservations.POST(t, "/api/v1/reservations", reservationBody(roomID, base.Add(time.Hour), base.Add(2*time.Hour)))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
}

func TestUpdateExcludesSelf(t *testing.T) {
	_, reservations, roomID := setup(t)

	base := time.Now().Add(72 * time.Hour).Truncate(time.Hour)

	resp := reservations.POST(t, "/api/v1/reservations", reservationBody(roomID, base, base.Add(time.Hour)))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	id := testutil.ExtractID(t, resp)

	// Extending inside its own window must not conflict with itself.
	resp = reservations.PATCH(t, "/api/v1/reservations/id/"+id, map[string]any{
		"end_time": base.Add(90 * time.Minute).Format(time.RFC3339),
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}

func TestUpdateOntoNeighborRejected(t *testing.T) {
	_, reservations, roomID := setup(t)

	base := time.Now().Add(96 * time.Hour).Truncate(time.Hour)

	resp := reservations.POST(t, "/api/v1/reservations", reservationBody(roomID, base, base.Add(time.Hour)))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	firstID := testutil.ExtractID(t, resp)

	resp = reservations.POST(t, "/api/v1/reservations", reservationBody(roomID, base.Add(time.Hour), base.Add(2*time.Hour)))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	resp = reservations.PATCH(t, "/api/v1/reservations/id/"+firstID, map[string]any{
		"end_time": base.Add(time.Hour + 15*time.Minute).Format(time.RFC3339),
	})
	testutil.AssertStatusCode(t, resp, http.StatusConflict)
}

func TestSearchWindow(t *testing.T) {
	_, reservations, roomID := setup(t)

	base := time.Now().Add(120 * time.Hour).Truncate(time.Hour)

	resp := reservations.POST(t, "/api/v1/reservations", reservationBody(roomID, base, base.Add(time.Hour)))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	id := testutil.ExtractID(t, resp)

	path := fmt.Sprintf("/api/v1/reservations/search?start_time=%s&end_time=%s",
		base.Add(-time.Hour).Format(time.RFC3339),
		base.Add(2*time.Hour).Format(time.RFC3339))
	resp = reservations.GET(t, path)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertContains(t, resp, id)

	// Containment query: a window that clips the reservation excludes it.
	path = fmt.Sprintf("/api/v1/reservations/search?start_time=%s&end_time=%s",
		base.Add(30*time.Minute).Format(time.RFC3339),
		base.Add(2*time.Hour).Format(time.RFC3339))
	resp = reservations.GET(t, path)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode search results: %v", err)
	}
	for _, r := range result.Data {
		if r.ID == id {
			t.Error("clipped reservation should not appear in containment search")
		}
	}
}

func TestAvailabilityDay(t *testing.T) {
	_, reservations, roomID := setup(t)

	day := time.Now().UTC().Add(240 * time.Hour).Truncate(24 * time.Hour)

	resp := reservations.POST(t, "/api/v1/reservations", reservationBody(roomID, day.Add(9*time.Hour), day.Add(10*time.Hour)))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	id := testutil.ExtractID(t, resp)

	path := fmt.Sprintf("/api/v1/rooms/id/%s/availability?date=%s", roomID, day.Format("2006-01-02"))
	resp = reservations.GET(t, path)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertContains(t, resp, id)

	var result struct {
		Data struct {
			Date  string `json:"date"`
			Total int    `json:"total"`
		} `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode availability: %v", err)
	}
	if result.Data.Date != day.Format("2006-01-02") || result.Data.Total < 1 {
		t.Errorf("unexpected availability summary: %+v", result.Data)
	}

	// The day before is empty.
	path = fmt.Sprintf("/api/v1/rooms/id/%s/availability?date=%s", roomID, day.Add(-24*time.Hour).Format("2006-01-02"))
	resp = reservations.GET(t, path)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode availability: %v", err)
	}
	if result.Data.Total != 0 {
		t.Errorf("expected empty previous day, got %+v", result.Data)
	}
}

func TestInactiveRoomStillBookable(t *testing.T) {
	rooms, reservations, roomID := setup(t)

	resp := rooms.PATCH(t, "/api/v1/rooms/id/"+roomID, map[string]any{"active": false})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	base := time.Now().Add(144 * time.Hour).Truncate(time.Hour)
	resp = reservations.POST(t, "/api/v1/reservations", reservationBody(roomID, base, base.Add(time.Hour)))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
}

func TestRoomDeleteCascades(t *testing.T) {
	rooms, reservations, roomID := setup(t)

	base := time.Now().Add(168 * time.Hour).Truncate(time.Hour)
	resp := reservations.POST(t, "/api/v1/reservations", reservationBody(roomID, base, base.Add(time.Hour)))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	id := testutil.ExtractID(t, resp)

	resp = rooms.DELETE(t, "/api/v1/rooms/id/"+roomID)
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)

	resp = reservations.GET(t, "/api/v1/reservations/id/"+id)
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}
