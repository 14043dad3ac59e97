package billplz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mihaimyh/paybridge/pkg/billing"
	"github.com/mihaimyh/paybridge/pkg/billing/internal"
)

// maxProviderResponseBytes bounds how much of a provider response is read.
const maxProviderResponseBytes = 1 << 20

// CreateBill opens a bill in the configured collection and returns its id and
// hosted payment URL. Non-2xx responses are returned as *billing.ProviderError.
func (p *Provider) CreateBill(ctx context.Context, req billing.BillRequest) (*billing.Bill, error) {
	if p.apiKey == "" {
		return nil, billing.ErrProviderNotConfigured
	}
	startTime := time.Now()

	form := url.Values{}
	form.Set("collection_id", p.config.CollectionID)
	form.Set("name", req.Name)
	form.Set("email", req.Email)
	form.Set("mobile", req.Mobile)
	form.Set("amount", req.Amount)
	form.Set("description", req.Description)
	form.Set("callback_url", req.CallbackURL)
	form.Set("redirect_url", req.RedirectURL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+billsEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.SetBasicAuth(p.apiKey, "")
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		p.metrics.RecordAPICall(providerName, billsEndpoint, "error")
		p.metrics.RecordAPICallDuration(providerName, billsEndpoint, time.Since(startTime))
		return nil, fmt.Errorf("failed to call billplz: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderResponseBytes))
	p.metrics.RecordAPICall(providerName, billsEndpoint, strconv.Itoa(resp.StatusCode))
	p.metrics.RecordAPICallDuration(providerName, billsEndpoint, time.Since(startTime))
	if err != nil {
		return nil, fmt.Errorf("failed to read billplz response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &billing.ProviderError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var bill billing.Bill
	if err := json.Unmarshal(body, &bill); err != nil {
		return nil, fmt.Errorf("%w: failed to decode bill: %v", billing.ErrProviderAPIError, err)
	}
	if bill.URL == "" {
		return nil, fmt.Errorf("%w: bill %q has no payment url", billing.ErrProviderAPIError, bill.ID)
	}

	return &bill, nil
}

// BillRequestFromForm validates the payer's form and builds the outbound
// request. Values are trimmed; name, amount and one of email or mobile are
// required.
func (p *Provider) BillRequestFromForm(fields map[string]string) (billing.BillRequest, error) {
	req := billing.BillRequest{
		Name:        strings.TrimSpace(fields["name"]),
		Email:       strings.TrimSpace(fields["email"]),
		Mobile:      strings.TrimSpace(fields["mobile"]),
		Amount:      strings.TrimSpace(fields["amount"]),
		Description: p.config.Description,
		CallbackURL: p.config.CallbackURL,
		RedirectURL: p.config.RedirectURL,
	}

	switch {
	case req.Name == "":
		return req, fmt.Errorf("%w: name", billing.ErrMissingFields)
	case req.Amount == "":
		return req, fmt.Errorf("%w: amount", billing.ErrMissingFields)
	case req.Email == "" && req.Mobile == "":
		return req, fmt.Errorf("%w: email or mobile", billing.ErrMissingFields)
	}
	return req, nil
}

// handleCreateBill turns a payer form post into a redirect to the hosted page
func (p *Provider) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	if p.apiKey == "" {
		http.Error(w, "billing not configured", http.StatusServiceUnavailable)
		return
	}

	requestID := uuid.NewString()

	body, err := internal.ReadBodyStrict(w, r, maxFormBodyBytes)
	if err != nil && !errors.Is(err, internal.ErrEmptyBody) {
		if errors.Is(err, internal.ErrPayloadTooLarge) {
			http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	fields, err := p.forms.Decode(body)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	req, err := p.BillRequestFromForm(fields)
	if err != nil {
		p.logger.Debug("bill form rejected",
			billing.Field{Key: "request_id", Value: requestID},
			billing.Field{Key: "error", Value: err},
		)
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}

	bill, err := p.CreateBill(r.Context(), req)
	if err != nil {
		p.logger.Error("bill creation failed",
			billing.Field{Key: "request_id", Value: requestID},
			billing.Field{Key: "error", Value: err},
		)
		var providerErr *billing.ProviderError
		if errors.As(err, &providerErr) {
			http.Error(w, "Billplz error: "+providerErr.Body, http.StatusInternalServerError)
			return
		}
		http.Error(w, "Billplz error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	p.logger.Info("bill created",
		billing.Field{Key: "request_id", Value: requestID},
		billing.Field{Key: "bill_id", Value: bill.ID},
	)
	w.Header().Set("Location", bill.URL)
	w.WriteHeader(http.StatusFound)
}
