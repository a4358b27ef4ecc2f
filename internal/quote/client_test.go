package quote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"uic-travel-backend/internal/model"
)

func testRequest() model.QuoteRequest {
	return model.QuoteRequest{
		TravelerName: "Munawar Abbas",
		NICNo:        "3520112345671",
		TravelDays:   10,
		DOB:          "01/05/1990",
		Covid:        model.CovidNotCovered,
	}
}

func TestSearchSuccess(t *testing.T) {
	var gotBody model.QuoteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/uic/packages" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []model.InsurancePackage{
				{Plan: "Silver", PlanType: "I", TotalPayablePremium: 1200, ResponseCode: model.QuoteSuccessCode},
				{Plan: "Gold", PlanType: "F", TotalPayablePremium: 5400, ResponseCode: model.QuoteSuccessCode},
			},
		})
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL)
	pkgs, err := c.Search(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(pkgs) != 2 {
		t.Fatalf("got %d packages, want 2", len(pkgs))
	}
	if gotBody.TravelerName != "Munawar Abbas" || gotBody.DOB != "01/05/1990" {
		t.Errorf("request body not forwarded: %+v", gotBody)
	}
}

func TestSearchFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "non-success response code",
			status:  http.StatusOK,
			body:    `{"data":[{"ResponseCode":"USTI-E404","ResponseDescription":"No packages for this route"}]}`,
			wantMsg: "No packages for this route",
		},
		{
			name:    "non-success code without description",
			status:  http.StatusOK,
			body:    `{"data":[{"ResponseCode":"USTI-E404"}]}`,
			wantMsg: "non-success code",
		},
		{
			name:    "data not an array",
			status:  http.StatusOK,
			body:    `{"data":{"oops":true}}`,
			wantMsg: "unexpected data format",
		},
		{
			name:    "data null",
			status:  http.StatusOK,
			body:    `{"data":null}`,
			wantMsg: "unexpected data format",
		},
		{
			name:    "http error with description",
			status:  http.StatusBadRequest,
			body:    `{"data":[{"ResponseCode":"USTI-E001","ResponseDescription":"DOB is malformed"}]}`,
			wantMsg: "DOB is malformed",
		},
		{
			name:    "http error without body detail",
			status:  http.StatusInternalServerError,
			body:    `{}`,
			wantMsg: "status 500",
		},
		{
			name:    "not JSON",
			status:  http.StatusOK,
			body:    `<html>gateway timeout</html>`,
			wantMsg: "invalid response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClientWithBase(srv.URL)
			_, err := c.Search(context.Background(), testRequest())
			if err == nil {
				t.Fatal("Search succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestSearchEmptyArrayIsSuccess(t *testing.T) {
	// An empty data array is a valid quote response: zero packages.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL)
	pkgs, err := c.Search(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(pkgs) != 0 {
		t.Errorf("got %d packages, want 0", len(pkgs))
	}
}
