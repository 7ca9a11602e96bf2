package handlers

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"billing/internal/money"
	"billing/internal/report"
	"billing/internal/services"
)

func setupReportRouter(handler *ReportHandler, username string, isStaff bool) *gin.Engine {
	r := gin.New()
	r.GET("/reports", injectUser("user-1", username, isStaff), handler.GetReport)
	return r
}

func sampleRows() []report.Row {
	return []report.Row{
		{ID: "e2", Username: "alice", Created: time.Date(2019, 9, 14, 11, 0, 0, 0, time.UTC), Currency: money.USD, Amount: decimal.RequireFromString("-100")},
		{ID: "e1", Username: "alice", Created: time.Date(2019, 9, 14, 10, 0, 0, 0, time.UTC), Currency: money.USD, Amount: decimal.RequireFromString("500")},
	}
}

func TestReportHandler_GetReport(t *testing.T) {
	t.Run("defaults to the caller as json", func(t *testing.T) {
		var got services.ReportFilter
		reports := &mockReportService{
			generateFn: func(f services.ReportFilter) ([]report.Row, error) {
				got = f
				return sampleRows(), nil
			},
		}
		r := setupReportRouter(NewReportHandler(reports), "alice", false)

		rec := doRequest(r, "GET", "/reports", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Username != "alice" || got.DateFrom != nil || got.DateTo != nil {
			t.Errorf("unexpected filter %+v", got)
		}
		results := parseJSON(t, rec)["results"].([]interface{})
		if len(results) != 2 || results[0].(map[string]interface{})["id"] != "e2" {
			t.Errorf("unexpected results %v", results)
		}
	})

	t.Run("non-staff cannot report on others", func(t *testing.T) {
		reports := &mockReportService{
			generateFn: func(services.ReportFilter) ([]report.Row, error) {
				t.Error("report must not be generated")
				return nil, nil
			},
		}
		r := setupReportRouter(NewReportHandler(reports), "alice", false)

		rec := doRequest(r, "GET", "/reports?username=bob", "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FORBIDDEN")
	})

	t.Run("staff can report on others", func(t *testing.T) {
		var got services.ReportFilter
		reports := &mockReportService{
			generateFn: func(f services.ReportFilter) ([]report.Row, error) {
				got = f
				return []report.Row{}, nil
			},
		}
		r := setupReportRouter(NewReportHandler(reports), "admin", true)

		rec := doRequest(r, "GET", "/reports?username=bob", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.Username != "bob" {
			t.Errorf("expected bob, got %s", got.Username)
		}
	})

	t.Run("date_to covers the whole day", func(t *testing.T) {
		var got services.ReportFilter
		reports := &mockReportService{
			generateFn: func(f services.ReportFilter) ([]report.Row, error) {
				got = f
				return []report.Row{}, nil
			},
		}
		r := setupReportRouter(NewReportHandler(reports), "alice", false)

		rec := doRequest(r, "GET", "/reports?date_from=2019-09-14&date_to=2019-09-14", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		wantFrom := time.Date(2019, 9, 14, 0, 0, 0, 0, time.UTC)
		wantTo := time.Date(2019, 9, 14, 23, 59, 59, 999999000, time.UTC)
		if got.DateFrom == nil || !got.DateFrom.Equal(wantFrom) {
			t.Errorf("expected from %v, got %v", wantFrom, got.DateFrom)
		}
		if got.DateTo == nil || !got.DateTo.Equal(wantTo) {
			t.Errorf("expected to %v, got %v", wantTo, got.DateTo)
		}
	})

	t.Run("timestamp date_to is kept exact", func(t *testing.T) {
		var got services.ReportFilter
		reports := &mockReportService{
			generateFn: func(f services.ReportFilter) ([]report.Row, error) {
				got = f
				return []report.Row{}, nil
			},
		}
		r := setupReportRouter(NewReportHandler(reports), "alice", false)

		rec := doRequest(r, "GET", "/reports?date_to=2019-09-14T10:30:00Z", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.DateTo == nil || !got.DateTo.Equal(time.Date(2019, 9, 14, 10, 30, 0, 0, time.UTC)) {
			t.Errorf("unexpected date_to %v", got.DateTo)
		}
	})

	t.Run("csv is an attachment", func(t *testing.T) {
		reports := &mockReportService{
			generateFn: func(services.ReportFilter) ([]report.Row, error) { return sampleRows(), nil },
		}
		r := setupReportRouter(NewReportHandler(reports), "alice", false)

		rec := doRequest(r, "GET", "/reports?format=csv", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="alice_report.csv"` {
			t.Errorf("unexpected Content-Disposition %q", cd)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("unexpected Content-Type %q", ct)
		}
		records, err := csv.NewReader(rec.Body).ReadAll()
		if err != nil {
			t.Fatalf("invalid csv: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header and 2 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "amount,created,currency,id,username" {
			t.Errorf("unexpected header %v", records[0])
		}
	})

	t.Run("xlsx and xml are attachments", func(t *testing.T) {
		reports := &mockReportService{
			generateFn: func(services.ReportFilter) ([]report.Row, error) { return sampleRows(), nil },
		}
		r := setupReportRouter(NewReportHandler(reports), "alice", false)

		for _, format := range []string{"xlsx", "xml"} {
			rec := doRequest(r, "GET", "/reports?format="+format, "")

			if rec.Code != http.StatusOK {
				t.Fatalf("%s: expected 200, got %d", format, rec.Code)
			}
			want := `attachment; filename="alice_report.` + format + `"`
			if cd := rec.Header().Get("Content-Disposition"); cd != want {
				t.Errorf("%s: unexpected Content-Disposition %q", format, cd)
			}
			if rec.Body.Len() == 0 {
				t.Errorf("%s: empty body", format)
			}
		}
	})

	invalid := []struct {
		name  string
		query string
	}{
		{"unknown format", "?format=pdf"},
		{"bad date_from", "?date_from=yesterday"},
		{"bad date_to", "?date_to=2019-13-01"},
	}
	for _, tt := range invalid {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupReportRouter(NewReportHandler(&mockReportService{}), "alice", false)

			rec := doRequest(r, "GET", "/reports"+tt.query, "")

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}
