package rooms

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"huddle/test/integration/testutil"
)

func TestRoomLifecycle(t *testing.T) {
	client := testutil.NewClient(t, "ROOMS_SERVICE_URL")
	client.WaitForHealthy(t, 30*time.Second)

	name := fmt.Sprintf("Lifecycle Room %d", time.Now().UnixNano())

	resp := client.POST(t, "/api/v1/rooms", map[string]any{
		"name":      name,
		"capacity":  8,
		"floor":     3,
		"amenities": []string{"Video Conf.", "Whiteboard"},
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	roomID := testutil.ExtractID(t, resp)

	defer client.DELETE(t, "/api/v1/rooms/id/"+roomID)

	resp = client.GET(t, "/api/v1/rooms/id/"+roomID)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var got struct {
		Data struct {
			Name      string   `json:"name"`
			Capacity  int      `json:"capacity"`
			Active    bool     `json:"active"`
			Amenities []string `json:"amenities"`
		} `json:"data"`
	}
	if err := resp.DecodeJSON(&got); err != nil {
		t.Fatalf("failed to decode room: %v", err)
	}
	if got.Data.Name != name {
		t.Errorf("expected name %q, got %q", name, got.Data.Name)
	}
	if !got.Data.Active {
		t.Error("expected new room to be active")
	}
	if len(got.Data.Amenities) != 2 || got.Data.Amenities[0] != "video_conf" {
		t.Errorf("expected normalized amenities, got %v", got.Data.Amenities)
	}

	resp = client.PATCH(t, "/api/v1/rooms/id/"+roomID, map[string]any{
		"capacity": 12,
		"active":   false,
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = client.GET(t, "/api/v1/rooms/id/"+roomID)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	if err := resp.DecodeJSON(&got); err != nil {
		t.Fatalf("failed to decode room: %v", err)
	}
	if got.Data.Capacity != 12 || got.Data.Active {
		t.Errorf("expected capacity 12 and inactive, got capacity %d active %v", got.Data.Capacity, got.Data.Active)
	}

	resp = client.DELETE(t, "/api/v1/rooms/id/"+roomID)
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)

	resp = client.GET(t, "/api/v1/rooms/id/"+roomID)
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestRoomDuplicateName(t *testing.T) {
	client := testutil.NewClient(t, "ROOMS_SERVICE_URL")
	client.WaitForHealthy(t, 30*time.Second)

	name := fmt.Sprintf("Duplicate Room %d", time.Now().UnixNano())

	resp := client.POST(t, "/api/v1/rooms", map[string]any{
		"name":     name,
		"capacity": 4,
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	roomID := testutil.ExtractID(t, resp)
	defer client.DELETE(t, "/api/v1/rooms/id/"+roomID)

	resp = client.POST(t, "/api/v1/rooms", map[string]any{
		"name":     "  " + name + "  ",
		"capacity": 6,
	})
	testutil.AssertStatusCode(t, resp, http.StatusConflict)
}

func TestRoomValidation(t *testing.T) {
	client := testutil.NewClient(t, "ROOMS_SERVICE_URL")
	client.WaitForHealthy(t, 30*time.Second)

	resp := client.POST(t, "/api/v1/rooms", map[string]any{
		"name":     "",
		"capacity": 0,
	})
	testutil.AssertStatusCode(t, resp, http.StatusUnprocessableEntity)
}
