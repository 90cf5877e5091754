package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/testutil"
)

func TestDividendHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewDividendHandler(testutil.NewTestDividendService(t, db))

	stock := testutil.NewStock().Build(t, db)
	account := testutil.NewAccount().Build(t, db)
	testutil.NewHolding(account.ID, stock.ID).WithQuantity("8").Build(t, db)

	var dividend model.Dividend

	t.Run("declares a dividend", func(t *testing.T) {
		body := `{"stockId":"` + stock.ID + `","amountPerShare":"0.75","payDate":"2024-06-30"}`
		w := httptest.NewRecorder()
		handler.CreateDividend(w, postJSON("/api/dividend", body))

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&dividend)
	})

	t.Run("rejects a duplicate with 409", func(t *testing.T) {
		body := `{"stockId":"` + stock.ID + `","amountPerShare":"0.75","payDate":"2024-06-30"}`
		w := httptest.NewRecorder()
		handler.CreateDividend(w, postJSON("/api/dividend", body))

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects an invalid body with 400", func(t *testing.T) {
		body := `{"stockId":"` + stock.ID + `","amountPerShare":"-1","payDate":"tomorrow"}`
		w := httptest.NewRecorder()
		handler.CreateDividend(w, postJSON("/api/dividend", body))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("distributes once", func(t *testing.T) {
		for i, want := range []int{1, 0} {
			req := testutil.NewRequestWithURLParams(http.MethodPost, "/api/dividend/"+dividend.ID+"/distribute", map[string]string{"uuid": dividend.ID})
			w := httptest.NewRecorder()
			handler.DistributeDividend(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Call %d: expected 200, got %d: %s", i, w.Code, w.Body.String())
			}

			var payments []model.DividendPayment
			//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
			json.NewDecoder(w.Body).Decode(&payments)
			if len(payments) != want {
				t.Errorf("Call %d: expected %d payments, got %d", i, want, len(payments))
			}
		}
	})

	t.Run("lists payments", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/dividend/"+dividend.ID+"/payments", map[string]string{"uuid": dividend.ID})
		w := httptest.NewRecorder()
		handler.Payments(w, req)

		var payments []model.DividendPayment
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&payments)
		if len(payments) != 1 || !payments[0].TotalAmount.Equal(testutil.D("6")) {
			t.Errorf("Unexpected payments %+v", payments)
		}
	})

	t.Run("lists account payments", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/dividend/account/"+account.ID, map[string]string{"uuid": account.ID})
		w := httptest.NewRecorder()
		handler.AccountPayments(w, req)

		var payments []model.DividendPayment
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&payments)
		if w.Code != http.StatusOK || len(payments) != 1 || payments[0].DividendID != dividend.ID {
			t.Errorf("Expected one payment for %s, got %d: %s", dividend.ID, w.Code, w.Body.String())
		}
	})

	t.Run("unknown dividend is 404", func(t *testing.T) {
		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(http.MethodPost, "/api/dividend/"+id+"/distribute", map[string]string{"uuid": id})
		w := httptest.NewRecorder()
		handler.DistributeDividend(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}
