// Package httpapi exposes the purchase wizard's four stages as HTTP
// endpoints over the server-held session.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"uic-travel-backend/internal/auth"
	"uic-travel-backend/internal/filter"
	"uic-travel-backend/internal/model"
	"uic-travel-backend/internal/wizard"
)

// Service wires the wizard and the identity store into HTTP handlers.
type Service struct {
	wiz  *wizard.Wizard
	auth *auth.Store
}

// NewService creates the HTTP service.
func NewService(wiz *wizard.Wizard, authStore *auth.Store) *Service {
	return &Service{wiz: wiz, auth: authStore}
}

// RegisterRoutes wires the wizard routes.
// gorilla/mux: method-based routing with the session ID as a path
// variable.
func (s *Service) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/wizard").Subrouter()
	api.HandleFunc("/search", s.searchHandler).Methods(http.MethodPost)
	api.HandleFunc("/{id}/packages", s.packagesHandler).Methods(http.MethodGet)
	api.HandleFunc("/{id}/select", s.selectHandler).Methods(http.MethodPost)
	api.HandleFunc("/{id}/purchase", s.purchaseHandler).Methods(http.MethodPost)
	api.HandleFunc("/{id}/payment/complete", s.paymentHandler).Methods(http.MethodPost)
	api.HandleFunc("/{id}/confirmation", s.confirmationHandler).Methods(http.MethodGet)
	api.HandleFunc("/{id}/download", s.downloadHandler).Methods(http.MethodPost)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

// ownerID resolves the record owner from the identity store.
func (s *Service) ownerID() string {
	if s.auth == nil {
		return auth.GuestUID
	}
	return s.auth.OwnerID()
}

// handleWizardError maps wizard errors onto the error taxonomy:
// validation 422, broken stage flow 409, unknown session 404, missing
// critical data 303 home, anything else a 502 with the API's own
// message.
func (s *Service) handleWizardError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *wizard.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"success":       false,
			"errors":        verr.Fields,
			"notifications": s.wiz.Notifications(),
		})
	case errors.Is(err, wizard.ErrSearchInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, wizard.ErrPackageNotFound):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, wizard.ErrStageOrder):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, wizard.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, wizard.ErrMissingPolicyNo):
		// Broken or forged navigation state: send the user home.
		log.Printf("httpapi: missing policy data, redirecting: %v", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func (s *Service) searchHandler(w http.ResponseWriter, r *http.Request) {
	var search model.TripSearch
	if err := json.NewDecoder(r.Body).Decode(&search); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess, err := s.wiz.StartSearch(r.Context(), s.ownerID(), search)
	if err != nil {
		s.handleWizardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": sess})
}

func (s *Service) packagesHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c := filter.Default()
	q := r.URL.Query()
	if v := q.Get("plan_type"); v != "" {
		c.PlanType = v
	}
	if v := q.Get("price_ceiling"); v != "" {
		if ceiling, err := strconv.ParseFloat(v, 64); err == nil && ceiling >= filter.PriceFloor {
			c.PriceCeiling = ceiling
		}
	}
	if v := q.Get("covid"); v == "true" || v == "1" {
		c.CovidOnly = true
	}

	visible, err := s.wiz.VisiblePackages(r.Context(), id, c)
	if err != nil {
		s.handleWizardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": visible, "count": len(visible)})
}

func (s *Service) selectHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body struct {
		Plan string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Plan == "" {
		writeError(w, http.StatusBadRequest, "plan is required")
		return
	}

	sess, err := s.wiz.SelectPackage(r.Context(), id, body.Plan)
	if err != nil {
		s.handleWizardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": sess})
}

func (s *Service) purchaseHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var draft model.PurchaseDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := s.wiz.SubmitPurchase(r.Context(), id, draft)
	if err != nil {
		s.handleWizardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": res})
}

func (s *Service) paymentHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, err := s.wiz.CompletePayment(r.Context(), id)
	if err != nil {
		s.handleWizardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": sess})
}

func (s *Service) confirmationHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	view, err := s.wiz.Confirmation(r.Context(), id)
	if err != nil {
		s.handleWizardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": view})
}

func (s *Service) downloadHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	res, err := s.wiz.Download(r.Context(), id)
	if err != nil {
		s.handleWizardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": res})
}
