package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/testutil"
)

func TestSnapshotHandler_CreateSnapshot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewSnapshotHandler(testutil.NewTestSnapshotService(t, db))
	account := testutil.NewAccount().WithCash("2500").Build(t, db)

	newRequest := func(body string) *http.Request {
		path := "/api/snapshot/account/" + account.ID
		params := map[string]string{"uuid": account.ID}
		if body == "" {
			return testutil.NewRequestWithURLParams(http.MethodPost, path, params)
		}
		return testutil.NewJSONRequestWithURLParams(http.MethodPost, path, body, params)
	}

	t.Run("snapshots an explicit day", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreateSnapshot(w, newRequest(`{"date":"2024-02-29"}`))

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var s model.PortfolioSnapshot
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&s)
		if !s.TotalValue.Equal(testutil.D("2500")) || s.SnapshotDate.Format("2006-01-02") != "2024-02-29" {
			t.Errorf("Unexpected snapshot %+v", s)
		}
	})

	t.Run("second snapshot on the same day is 409", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreateSnapshot(w, newRequest(`{"date":"2024-02-29"}`))

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("empty body means today", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreateSnapshot(w, newRequest(""))

		if w.Code != http.StatusCreated {
			t.Errorf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("future date is 422", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreateSnapshot(w, newRequest(`{"date":"2099-01-01"}`))

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("day before the latest snapshot is 422", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreateSnapshot(w, newRequest(`{"date":"2024-02-28"}`))

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("bad date is 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreateSnapshot(w, newRequest(`{"date":"29-02-2024"}`))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestSnapshotHandler_GenerateAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewSnapshotHandler(testutil.NewTestSnapshotService(t, db))
	testutil.NewAccount().Build(t, db)
	testutil.NewAccount().Build(t, db)

	w := httptest.NewRecorder()
	handler.GenerateAll(w, httptest.NewRequest(http.MethodPost, "/api/snapshot/generate-all", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result model.SnapshotBatchResult
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&result)
	if result.Succeeded != 2 || result.Total != 2 {
		t.Errorf("Unexpected result %+v", result)
	}
}

func TestSnapshotHandler_SnapshotsPerAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewSnapshotHandler(testutil.NewTestSnapshotService(t, db))
	account := testutil.NewAccount().Build(t, db)
	testutil.NewSnapshot(account.ID).Build(t, db)

	t.Run("returns history", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/snapshot/account/"+account.ID, map[string]string{"uuid": account.ID})
		w := httptest.NewRecorder()
		handler.SnapshotsPerAccount(w, req)

		var snapshots []model.PortfolioSnapshot
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&snapshots)
		if w.Code != http.StatusOK || len(snapshots) != 1 {
			t.Errorf("Expected 200 with 1 snapshot, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("inverted range is 400", func(t *testing.T) {
		req := testutil.HTTPRequest{
			Method:    http.MethodGet,
			Path:      "/api/snapshot/account/" + account.ID,
			URLParams: map[string]string{"uuid": account.ID},
			Query:     map[string]string{"startDate": "2024-12-31", "endDate": "2024-01-01"},
		}.Build()

		w := httptest.NewRecorder()
		handler.SnapshotsPerAccount(w, req)

		if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "startDate") {
			t.Errorf("Expected 400 naming startDate, got %d: %s", w.Code, w.Body.String())
		}
	})
}
