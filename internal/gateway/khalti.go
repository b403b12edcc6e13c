package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// KhaltiConfig carries the merchant credentials and endpoints for Khalti.
type KhaltiConfig struct {
	SecretKey  string
	GatewayURL string
	ReturnURL  string
	WebsiteURL string
}

// Khalti implements the Khalti ePayment flow: a server-side initiation that
// hands back a hosted payment URL, and a pidx lookup that confirms the
// callback.
type Khalti struct {
	cfg    KhaltiConfig
	client *http.Client
}

// NewKhalti creates a Khalti adapter. A nil client gets the default bounded
// one.
func NewKhalti(cfg KhaltiConfig, client *http.Client) *Khalti {
	if client == nil {
		client = newHTTPClient()
	}
	return &Khalti{cfg: cfg, client: client}
}

// KhaltiInitiation is the handoff payload for the client.
type KhaltiInitiation struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
}

// KhaltiCallback holds the query parameters Khalti appends to the return
// URL.
type KhaltiCallback struct {
	Pidx            string
	Amount          float64
	PurchaseOrderID string
	TransactionID   string
}

type khaltiLookupResponse struct {
	Pidx          string      `json:"pidx"`
	TotalAmount   json.Number `json:"total_amount"`
	Status        string      `json:"status"`
	TransactionID string      `json:"transaction_id"`
}

// Initiate registers the payment with Khalti. The amount is converted to
// minor units (paisa) and the order id doubles as purchase order id and
// name.
func (g *Khalti) Initiate(ctx context.Context, amount float64, orderID string) (*KhaltiInitiation, error) {
	if g.cfg.SecretKey == "" || g.cfg.GatewayURL == "" {
		return nil, fmt.Errorf("khalti configuration missing")
	}
	payload := map[string]interface{}{
		"return_url":          g.cfg.ReturnURL,
		"website_url":         g.cfg.WebsiteURL,
		"amount":              int64(amount * 100),
		"purchase_order_id":   orderID,
		"purchase_order_name": orderID,
	}

	body, err := g.post(ctx, "/epayment/initiate/", payload)
	if err != nil {
		return nil, err
	}

	var initiation KhaltiInitiation
	if err := json.Unmarshal(body, &initiation); err != nil {
		return nil, fmt.Errorf("failed to parse khalti initiation response: %w", err)
	}
	if initiation.Pidx == "" || initiation.PaymentURL == "" {
		return nil, fmt.Errorf("khalti initiation incomplete: %s", body)
	}
	return &initiation, nil
}

// VerifyCallback looks the payment index up at the gateway and fails unless
// the status is Completed and the transaction id and amount match the
// callback exactly.
func (g *Khalti) VerifyCallback(ctx context.Context, cb KhaltiCallback) (*Verification, error) {
	body, err := g.post(ctx, "/epayment/lookup/", map[string]interface{}{"pidx": cb.Pidx})
	if err != nil {
		return nil, err
	}

	var lookup khaltiLookupResponse
	if err := json.Unmarshal(body, &lookup); err != nil {
		return nil, fmt.Errorf("failed to parse khalti lookup response: %w", err)
	}

	total, _ := lookup.TotalAmount.Float64()
	if lookup.Status != "Completed" ||
		lookup.TransactionID != cb.TransactionID ||
		total != cb.Amount {
		return nil, fmt.Errorf("%w: khalti lookup status %s for pidx %s", ErrInvalidInfo, lookup.Status, cb.Pidx)
	}

	return &Verification{
		OrderID:       cb.PurchaseOrderID,
		Amount:        cb.Amount,
		TransactionID: cb.TransactionID,
		RawPayload:    string(body),
	}, nil
}

// post sends a JSON payload to a gateway endpoint, retrying once on
// transport failure only.
func (g *Khalti) post(ctx context.Context, path string, payload map[string]interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal khalti payload: %w", err)
	}
	endpoint := strings.TrimRight(g.cfg.GatewayURL, "/") + path

	var resp *http.Response
	for attempt := 0; attempt < 2; attempt++ {
		var req *http.Request
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to build khalti request: %w", err)
		}
		req.Header.Set("Authorization", "key "+g.cfg.SecretKey)
		req.Header.Set("Content-Type", "application/json")
		resp, err = g.client.Do(req)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("khalti request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read khalti response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("khalti API error (%d): %s", resp.StatusCode, body)
	}
	return body, nil
}
