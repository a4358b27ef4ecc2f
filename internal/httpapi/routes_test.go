package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"uic-travel-backend/internal/auth"
	"uic-travel-backend/internal/issuance"
	"uic-travel-backend/internal/model"
	"uic-travel-backend/internal/quote"
	"uic-travel-backend/internal/records"
	"uic-travel-backend/internal/wizard"
)

// upstream fakes the UIC quote and issuance APIs on one test server.
func upstream(t *testing.T, issuanceBody string, issuanceStatus int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/uic/packages":
			fmt.Fprint(w, `{"data":[
				{"Plan":"Silver","PlanType":"I","AreaShortCode":"WW","TotalPayablePremium":1200,"Covid":"No","ResponseCode":"USTI-S001"},
				{"Plan":"Family Gold","PlanType":"F","AreaShortCode":"SCH","TotalPayablePremium":5400,"Covid":"Covered","ResponseCode":"USTI-S001"}
			]}`)
		case "/api/uic/policy/create":
			w.WriteHeader(issuanceStatus)
			fmt.Fprint(w, issuanceBody)
		default:
			http.NotFound(w, r)
		}
	}))
}

const issuedOK = `{"data":[{
	"PolicyNo":"UIC-2025-000123","ReferenceID":"REF-9001","TravelerName":"Munawar Abbas",
	"TravelerEmail":"munawar@example.com","PlanName":"SILVER","Area":"Worldwide",
	"Amount":"1200","AdvanceTax":"48","StartDate":"01/06/2025","Duration":10,
	"PolicyPrintUrl":"https://uic.example.com/print/UIC-2025-000123","ResponseCode":"USTI-S001"}]}`

func newTestRouter(t *testing.T, issuanceBody string, issuanceStatus int) *mux.Router {
	t.Helper()
	up := upstream(t, issuanceBody, issuanceStatus)
	t.Cleanup(up.Close)

	wiz := wizard.New(
		wizard.NewMemoryStore(),
		quote.NewClientWithBase(up.URL),
		issuance.NewClientWithBase(up.URL),
		records.NewStoreAt(t.TempDir()),
		nil,
		wizard.DefaultConfig(),
	)

	r := mux.NewRouter()
	NewService(wiz, auth.NewStore()).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func searchBody() map[string]any {
	return map[string]any{
		"traveler_name": "Munawar Abbas",
		"nic_no":        "35201-1234567-1",
		"dob":           "1990-05-01",
		"travel_start":  "2025-06-01",
		"travel_end":    "2025-06-10",
		"covid":         "Not Covered",
	}
}

func draftBody() map[string]any {
	return map[string]any{
		"traveler_name":    "Munawar Abbas",
		"nic_no":           "35201-1234567-1",
		"dob":              "1990-05-01",
		"passport_no":      "AB1234567",
		"email":            "munawar@example.com",
		"contact_no":       "03001234567",
		"address":          "House 12, Street 4, Gulberg III, Lahore",
		"beneficiary_name": "Sana Abbas",
		"relationship":     "Spouse",
		"start_date":       "2025-06-01",
		"travel_days":      10,
	}
}

// startSession posts a search and returns the new session ID.
func startSession(t *testing.T, r *mux.Router) string {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/wizard/search", searchBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Data wizard.Session `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode search response: %v", err)
	}
	if resp.Data.ID == "" {
		t.Fatal("search response has no session ID")
	}
	return resp.Data.ID
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, issuedOK, http.StatusOK)
	rec := doJSON(t, r, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSearchValidation(t *testing.T) {
	r := newTestRouter(t, issuedOK, http.StatusOK)
	body := searchBody()
	body["traveler_name"] = ""
	rec := doJSON(t, r, http.MethodPost, "/wizard/search", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPackagesFiltering(t *testing.T) {
	r := newTestRouter(t, issuedOK, http.StatusOK)
	id := startSession(t, r)

	rec := doJSON(t, r, http.MethodGet, "/wizard/"+id+"/packages?plan_type=Family&price_ceiling=5000", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Data  []model.InsurancePackage `json:"data"`
		Count int                      `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Family Gold costs 5400, above the ceiling; nothing passes.
	if resp.Count != 0 {
		t.Errorf("count = %d, want 0: %+v", resp.Count, resp.Data)
	}

	rec = doJSON(t, r, http.MethodGet, "/wizard/"+id+"/packages?plan_type=Family", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || resp.Data[0].Plan != "Family Gold" {
		t.Errorf("got %+v, want only Family Gold", resp.Data)
	}
}

func TestFullFlow(t *testing.T) {
	r := newTestRouter(t, issuedOK, http.StatusOK)
	id := startSession(t, r)

	rec := doJSON(t, r, http.MethodPost, "/wizard/"+id+"/select", map[string]string{"plan": "Silver"})
	if rec.Code != http.StatusOK {
		t.Fatalf("select status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, r, http.MethodPost, "/wizard/"+id+"/purchase", draftBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("purchase status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, r, http.MethodGet, "/wizard/"+id+"/confirmation", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirmation status = %d, body %s", rec.Code, rec.Body)
	}
	var conf struct {
		Data wizard.ConfirmationView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &conf); err != nil {
		t.Fatalf("decode confirmation: %v", err)
	}
	if conf.Data.Policy.PolicyNo != "UIC-2025-000123" || conf.Data.TotalAmount != "1248.00" {
		t.Errorf("confirmation = %+v", conf.Data)
	}

	rec = doJSON(t, r, http.MethodPost, "/wizard/"+id+"/download", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d, body %s", rec.Code, rec.Body)
	}
	var dl struct {
		Data wizard.DownloadResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &dl); err != nil {
		t.Fatalf("decode download: %v", err)
	}
	if dl.Data.URL == "" || dl.Data.Warning != "" {
		t.Errorf("download = %+v", dl.Data)
	}
}

func TestPurchaseValidationErrors(t *testing.T) {
	r := newTestRouter(t, issuedOK, http.StatusOK)
	id := startSession(t, r)
	doJSON(t, r, http.MethodPost, "/wizard/"+id+"/select", map[string]string{"plan": "Silver"})

	body := draftBody()
	body["email"] = "user@"
	body["nic_no"] = "123"
	rec := doJSON(t, r, http.MethodPost, "/wizard/"+id+"/purchase", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Errors["email"] == "" || resp.Errors["nicNo"] == "" {
		t.Errorf("errors = %v, want email and nicNo keys", resp.Errors)
	}
}

func TestIssuanceEmptyDataIsFailure(t *testing.T) {
	r := newTestRouter(t, `{"data":[]}`, http.StatusOK)
	id := startSession(t, r)
	doJSON(t, r, http.MethodPost, "/wizard/"+id+"/select", map[string]string{"plan": "Silver"})

	rec := doJSON(t, r, http.MethodPost, "/wizard/"+id+"/purchase", draftBody())
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502, body %s", rec.Code, rec.Body)
	}
}

func TestConfirmationMissingPolicyRedirectsHome(t *testing.T) {
	r := newTestRouter(t, `{"data":[{"PolicyNo":"","PolicyPrintUrl":"https://x"}]}`, http.StatusOK)
	id := startSession(t, r)
	doJSON(t, r, http.MethodPost, "/wizard/"+id+"/select", map[string]string{"plan": "Silver"})
	doJSON(t, r, http.MethodPost, "/wizard/"+id+"/purchase", draftBody())

	rec := doJSON(t, r, http.MethodGet, "/wizard/"+id+"/confirmation", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestStageOrderConflict(t *testing.T) {
	r := newTestRouter(t, issuedOK, http.StatusOK)
	id := startSession(t, r)
	// Purchase without selecting a package first.
	rec := doJSON(t, r, http.MethodPost, "/wizard/"+id+"/purchase", draftBody())
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestUnknownSession(t *testing.T) {
	r := newTestRouter(t, issuedOK, http.StatusOK)
	rec := doJSON(t, r, http.MethodGet, "/wizard/nope/confirmation", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
