// Package wizard drives the four-stage insurance purchase flow:
// search intake, package selection, purchase submission, and
// confirmation with a once-persisted download.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"uic-travel-backend/internal/dates"
	"uic-travel-backend/internal/filter"
	"uic-travel-backend/internal/model"
	"uic-travel-backend/internal/purchase"
	"uic-travel-backend/internal/records"
)

// Sentinel errors for broken stage flow. Missing policy data marks a
// forged or stale session and resolves by redirecting home.
var (
	ErrStageOrder      = errors.New("wizard stage out of order")
	ErrSearchInvalid   = errors.New("please fill in Traveler Name, Date of Birth, and valid Travel Dates")
	ErrPackageNotFound = errors.New("selected package is not part of this quote")
	ErrMissingPolicyNo = errors.New("policy record has no policy number")
)

// ValidationError carries the field-keyed error map for a rejected
// purchase draft.
type ValidationError struct {
	Fields purchase.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("purchase draft invalid: %d field(s) failed", len(e.Fields))
}

// QuoteAPI prices packages for a search.
type QuoteAPI interface {
	Search(ctx context.Context, req model.QuoteRequest) ([]model.InsurancePackage, error)
}

// IssuanceAPI creates policies from validated payloads.
type IssuanceAPI interface {
	Create(ctx context.Context, payload model.IssuanceRequest) (*model.IssuedPolicy, error)
}

// RecordSink persists issued-policy records on download.
type RecordSink interface {
	Save(ctx context.Context, rec records.Record) error
}

// AuditPublisher emits policy audit events. Failures are logged, never
// surfaced.
type AuditPublisher func(ctx context.Context, evt model.PolicyEvent) error

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Config selects the form-variant behavior and the terminal transition.
type Config struct {
	Validation purchase.Policy
	// PaymentRedirect interposes the hosted payment page between
	// purchase and confirmation.
	PaymentRedirect bool
	// PaymentBase is the hosted payment page; the redirect URL is
	// built from it plus the policy reference.
	PaymentBase string
}

// DefaultConfig uses the strict validation variant and the direct
// terminal transition.
func DefaultConfig() Config {
	return Config{
		Validation:  purchase.StrictDefaults(),
		PaymentBase: getenv("PAYMENT_GATEWAY_BASE", "https://gateway.theunitedinsurance.com/checkout"),
	}
}

// Wizard owns the stage handlers and the collaborators they call.
type Wizard struct {
	store    Store
	quotes   QuoteAPI
	issuer   IssuanceAPI
	recs     RecordSink
	audit    AuditPublisher
	notifier *purchase.Notifier
	cfg      Config
	now      func() time.Time
}

// New wires a wizard from its collaborators. audit may be nil.
func New(store Store, quotes QuoteAPI, issuer IssuanceAPI, recs RecordSink, audit AuditPublisher, cfg Config) *Wizard {
	return &Wizard{
		store:    store,
		quotes:   quotes,
		issuer:   issuer,
		recs:     recs,
		audit:    audit,
		notifier: purchase.NewNotifier(),
		cfg:      cfg,
		now:      time.Now,
	}
}

// Notifications returns the live transient validation notifications
// for the notification-style form variant.
func (w *Wizard) Notifications() []purchase.Notification {
	return w.notifier.Active()
}

// StartSearch validates the search intake, requests quotes, and on
// success opens a session at the packages stage carrying the full
// quote array plus the search parameters.
func (w *Wizard) StartSearch(ctx context.Context, ownerID string, search model.TripSearch) (*Session, error) {
	if search.TravelDays == 0 && search.TravelStart != "" && search.TravelEnd != "" {
		if days, err := dates.DaysBetween(search.TravelStart, search.TravelEnd); err == nil && days > 0 {
			search.TravelDays = days
		}
	}
	if search.TravelerName == "" || search.DOB == "" || search.TravelDays <= 0 {
		return nil, ErrSearchInvalid
	}
	if search.Covid != model.CovidCovered {
		search.Covid = model.CovidNotCovered
	}

	dobExt, err := dates.ToExternal(search.DOB)
	if err != nil {
		return nil, ErrSearchInvalid
	}

	quoted, err := w.quotes.Search(ctx, model.QuoteRequest{
		TravelerName: search.TravelerName,
		NICNo:        search.NICNo,
		NTNNo:        search.NTNNo,
		TravelDays:   search.TravelDays,
		DOB:          dobExt,
		Covid:        search.Covid,
	})
	if err != nil {
		return nil, err
	}

	search.FormattedDOB = dobExt
	search.FormattedStartDate, _ = dates.ToExternal(search.TravelStart)
	search.FormattedEndDate, _ = dates.ToExternal(search.TravelEnd)

	s := &Session{
		ID:       uuid.NewString(),
		Stage:    StagePackages,
		OwnerID:  ownerID,
		Created:  w.now().UTC(),
		Search:   &search,
		Packages: quoted,
	}
	if err := w.store.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}

// VisiblePackages applies the current filters over the session's full
// quote array. The unfiltered array never leaves the session.
func (w *Wizard) VisiblePackages(ctx context.Context, id string, c filter.Criteria) ([]model.InsurancePackage, error) {
	s, err := w.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Stage != StagePackages {
		return nil, ErrStageOrder
	}
	return filter.Apply(s.Packages, c), nil
}

// SelectPackage confirms a quoted package by plan name and advances to
// the purchase stage, seeding the draft from the search parameters.
func (w *Wizard) SelectPackage(ctx context.Context, id, planName string) (*Session, error) {
	s, err := w.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Stage != StagePackages {
		return nil, ErrStageOrder
	}

	var selected *model.InsurancePackage
	for i := range s.Packages {
		if s.Packages[i].Plan == planName {
			selected = &s.Packages[i]
			break
		}
	}
	if selected == nil {
		return nil, ErrPackageNotFound
	}

	s.Selected = selected
	s.Draft = w.seedDraft(s)
	s.Stage = StagePurchase
	if err := w.store.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}

// seedDraft pre-fills the purchase form from the search stage, the way
// the form opens already populated.
func (w *Wizard) seedDraft(s *Session) *model.PurchaseDraft {
	draft := &model.PurchaseDraft{Remarks: "Online Purchase"}
	if s.Search != nil {
		draft.TravelerName = s.Search.TravelerName
		draft.NICNo = s.Search.NICNo
		draft.NTNNo = s.Search.NTNNo
		draft.DOB = s.Search.DOB
		draft.StartDate = s.Search.TravelStart
		draft.TravelDays = s.Search.TravelDays
	}
	if draft.TravelDays == 0 && s.Selected != nil {
		draft.TravelDays = s.Selected.Duration
	}
	if draft.TravelDays == 0 {
		draft.TravelDays = 7
	}
	if draft.StartDate == "" {
		draft.StartDate = w.now().UTC().Format(dates.InternalFormat)
	}
	return draft
}

// PurchaseResult is the outcome of a successful submission: either the
// session is already at confirmation, or the caller must send the user
// through the hosted payment page first.
type PurchaseResult struct {
	Session     *Session `json:"session"`
	RedirectURL string   `json:"redirect_url,omitempty"`
}

// SubmitPurchase validates the draft, shapes the issuance payload, and
// submits it. Validation failures return a *ValidationError with every
// failing field; API failures are terminal for the attempt and the user
// must re-submit explicitly.
func (w *Wizard) SubmitPurchase(ctx context.Context, id string, draft model.PurchaseDraft) (*PurchaseResult, error) {
	s, err := w.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Stage != StagePurchase || s.Selected == nil {
		return nil, ErrStageOrder
	}

	// Carry seeded trip fields when the submitted form leaves them out.
	if s.Draft != nil {
		if draft.StartDate == "" {
			draft.StartDate = s.Draft.StartDate
		}
		if draft.TravelDays == 0 {
			draft.TravelDays = s.Draft.TravelDays
		}
	}

	if errs := purchase.ValidateDraft(draft, *s.Selected, w.cfg.Validation, w.now()); !errs.Ok() {
		if w.cfg.Validation.Reporting != purchase.ReportFieldErrors {
			w.notifier.Push(errs)
		}
		return nil, &ValidationError{Fields: errs}
	}

	payload, err := purchase.BuildIssuanceRequest(draft, *s.Selected)
	if err != nil {
		return nil, err
	}
	if err := purchase.ValidatePayload(payload); err != nil {
		return nil, err
	}

	s.Draft = &draft
	if err := w.store.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	policy, err := w.issuer.Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.Policy = policy
	if w.cfg.PaymentRedirect {
		s.Stage = StagePayment
	} else {
		s.Stage = StageConfirmation
	}
	if err := w.store.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	w.publish(ctx, model.EventPolicyIssued, s)

	result := &PurchaseResult{Session: s}
	if w.cfg.PaymentRedirect {
		result.RedirectURL = w.paymentURL(policy)
	}
	return result, nil
}

// CompletePayment advances the payment-redirect variant to the
// confirmation stage once the hosted page reports back.
func (w *Wizard) CompletePayment(ctx context.Context, id string) (*Session, error) {
	s, err := w.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Stage != StagePayment {
		return nil, ErrStageOrder
	}
	s.Stage = StageConfirmation
	if err := w.store.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}

func (w *Wizard) paymentURL(policy *model.IssuedPolicy) string {
	q := url.Values{}
	q.Set("ref", policy.ReferenceID)
	q.Set("policy", policy.PolicyNo)
	return w.cfg.PaymentBase + "?" + q.Encode()
}

// ConfirmationView is what the confirmation stage renders.
type ConfirmationView struct {
	Policy      model.IssuedPolicy `json:"policy"`
	TotalAmount string             `json:"total_amount"`
	RecordSaved bool               `json:"record_saved"`
}

// Confirmation guards and renders the issued policy. A missing policy
// number is a broken navigation state: the caller redirects home and
// the session is dropped.
func (w *Wizard) Confirmation(ctx context.Context, id string) (*ConfirmationView, error) {
	s, err := w.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Stage != StageConfirmation {
		return nil, ErrStageOrder
	}
	if s.Policy == nil || s.Policy.PolicyNo == "" {
		_ = w.store.Delete(ctx, id)
		return nil, ErrMissingPolicyNo
	}
	return &ConfirmationView{
		Policy:      *s.Policy,
		TotalAmount: totalAmount(s.Policy),
		RecordSaved: s.RecordSaved,
	}, nil
}

// totalAmount computes premium + advance tax, treating absent or
// unparseable values as zero.
func totalAmount(p *model.IssuedPolicy) string {
	premium := parseDecimal(p.Amount)
	if p.Amount == "" {
		premium = parseDecimal(p.TotalPayablePremium)
	}
	return fmt.Sprintf("%.2f", premium+parseDecimal(p.AdvanceTax))
}

func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// DownloadResult carries the printable-document URL plus a non-blocking
// warning when record persistence failed.
type DownloadResult struct {
	URL     string `json:"url"`
	Warning string `json:"warning,omitempty"`
}

// Download persists the issued-policy record exactly once per session
// and returns the document URL. Persistence failure never blocks the
// download; it is logged and surfaced as a warning.
func (w *Wizard) Download(ctx context.Context, id string) (*DownloadResult, error) {
	s, err := w.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Stage != StageConfirmation {
		return nil, ErrStageOrder
	}
	if s.Policy == nil || s.Policy.PolicyNo == "" {
		_ = w.store.Delete(ctx, id)
		return nil, ErrMissingPolicyNo
	}

	result := &DownloadResult{URL: s.Policy.PolicyPrintURL}
	if s.RecordSaved {
		return result, nil
	}

	rec := w.buildRecord(s)
	if err := w.recs.Save(ctx, rec); err != nil {
		log.Printf("wizard: failed to persist policy record %s: %v", s.Policy.PolicyNo, err)
		result.Warning = "policy download ready, but transaction tracking failed"
		return result, nil
	}

	s.RecordSaved = true
	if err := w.store.Put(ctx, s); err != nil {
		log.Printf("wizard: failed to update download flag for %s: %v", s.ID, err)
	}

	w.publish(ctx, model.EventPolicyDownloaded, s)
	return result, nil
}

func (w *Wizard) buildRecord(s *Session) records.Record {
	p := s.Policy
	owner := s.OwnerID
	if owner == "" {
		owner = "guest"
	}
	amount := p.TotalAmount
	if amount == "" {
		amount = totalAmount(p)
	}
	return records.Record{
		UID:             owner,
		PolicyNumber:    p.PolicyNo,
		TravelerName:    p.TravelerName,
		UserEmail:       p.EmailAddress(),
		PlanName:        p.DisplayPlanName(),
		CoverageArea:    p.Area,
		Amount:          amount,
		PurchaseDate:    w.now().UTC().Format(time.RFC3339Nano),
		TravelStartDate: p.StartDate,
		TravelDuration:  p.Duration,
		Status:          "ISSUED & DOWNLOADED",
		PDFLink:         p.PolicyPrintURL,
		APIResponseDump: *p,
	}
}

func (w *Wizard) publish(ctx context.Context, eventType string, s *Session) {
	if w.audit == nil {
		return
	}
	evt := model.PolicyEvent{
		Type:         eventType,
		PolicyNo:     s.Policy.PolicyNo,
		ReferenceID:  s.Policy.ReferenceID,
		TravelerName: s.Policy.TravelerName,
		PlanName:     s.Policy.DisplayPlanName(),
		OwnerID:      s.OwnerID,
		SessionID:    s.ID,
		Timestamp:    w.now().UTC().Format(time.RFC3339Nano),
	}
	if err := w.audit(ctx, evt); err != nil {
		log.Printf("wizard: failed to publish %s for %s: %v", eventType, evt.PolicyNo, err)
	}
}
