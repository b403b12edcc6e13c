package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// EsewaConfig carries the merchant credentials and endpoint for eSewa.
type EsewaConfig struct {
	SecretKey   string
	ProductCode string
	GatewayURL  string
}

// Esewa implements the eSewa ePay v2 flow: an HMAC-SHA256 signed form
// handoff and a base64-encoded JSON redirect callback that is re-signed and
// cross-checked against the gateway's status endpoint.
type Esewa struct {
	cfg    EsewaConfig
	client *http.Client
}

// NewEsewa creates an eSewa adapter. A nil client gets the default bounded
// one.
func NewEsewa(cfg EsewaConfig, client *http.Client) *Esewa {
	if client == nil {
		client = newHTTPClient()
	}
	return &Esewa{cfg: cfg, client: client}
}

// EsewaInitiation is the handoff payload: the signature plus the field names
// it covers, which the client submits alongside the payment form.
type EsewaInitiation struct {
	Signature        string `json:"signature"`
	SignedFieldNames string `json:"signed_field_names"`
}

// esewaCallback is the decoded redirect payload.
type esewaCallback struct {
	TransactionCode  string `json:"transaction_code"`
	Status           string `json:"status"`
	TotalAmount      string `json:"total_amount"`
	TransactionUUID  string `json:"transaction_uuid"`
	ProductCode      string `json:"product_code"`
	SignedFieldNames string `json:"signed_field_names"`
	Signature        string `json:"signature"`
}

type esewaStatusResponse struct {
	Status          string      `json:"status"`
	TransactionUUID string      `json:"transaction_uuid"`
	TotalAmount     json.Number `json:"total_amount"`
	RefID           string      `json:"ref_id"`
}

func (g *Esewa) sign(data string) string {
	mac := hmac.New(sha256.New, []byte(g.cfg.SecretKey))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Initiate signs the canonical total_amount,transaction_uuid,product_code
// string for an order so the client can submit the eSewa payment form.
func (g *Esewa) Initiate(amount float64, transactionUUID string) (*EsewaInitiation, error) {
	if g.cfg.SecretKey == "" || g.cfg.ProductCode == "" {
		return nil, fmt.Errorf("esewa configuration missing")
	}
	data := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
		formatAmount(amount), transactionUUID, g.cfg.ProductCode)
	return &EsewaInitiation{
		Signature:        g.sign(data),
		SignedFieldNames: "total_amount,transaction_uuid,product_code",
	}, nil
}

// VerifyCallback decodes the base64 payload from the redirect, recomputes
// the signature, and confirms the transaction against the gateway's status
// endpoint. Signature or status mismatches return ErrInvalidInfo.
func (g *Esewa) VerifyCallback(ctx context.Context, encodedData string) (*Verification, error) {
	raw, err := base64.StdEncoding.DecodeString(encodedData)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(encodedData)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed callback data", ErrInvalidInfo)
		}
	}

	var cb esewaCallback
	if err := json.Unmarshal(raw, &cb); err != nil {
		return nil, fmt.Errorf("%w: malformed callback payload", ErrInvalidInfo)
	}

	// eSewa formats amounts with thousands separators in the redirect.
	totalAmount := strings.ReplaceAll(cb.TotalAmount, ",", "")

	signed := fmt.Sprintf(
		"transaction_code=%s,status=%s,total_amount=%s,transaction_uuid=%s,product_code=%s,signed_field_names=%s",
		cb.TransactionCode, cb.Status, totalAmount, cb.TransactionUUID,
		g.cfg.ProductCode, cb.SignedFieldNames)
	if !hmac.Equal([]byte(g.sign(signed)), []byte(cb.Signature)) {
		return nil, fmt.Errorf("%w: signature mismatch for transaction %s", ErrInvalidInfo, cb.TransactionUUID)
	}

	status, statusBody, err := g.lookupStatus(ctx, totalAmount, cb.TransactionUUID)
	if err != nil {
		return nil, err
	}

	amount, err := strconv.ParseFloat(totalAmount, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable amount %q", ErrInvalidInfo, cb.TotalAmount)
	}
	remoteAmount, _ := status.TotalAmount.Float64()
	if status.Status != "COMPLETE" ||
		status.TransactionUUID != cb.TransactionUUID ||
		remoteAmount != amount {
		return nil, fmt.Errorf("%w: gateway status %s for transaction %s", ErrInvalidInfo, status.Status, cb.TransactionUUID)
	}

	return &Verification{
		OrderID:       cb.TransactionUUID,
		Amount:        amount,
		TransactionID: cb.TransactionCode,
		RawPayload:    statusBody,
	}, nil
}

// lookupStatus queries the server-to-server transaction status endpoint,
// retrying once on transport failure only.
func (g *Esewa) lookupStatus(ctx context.Context, totalAmount, transactionUUID string) (*esewaStatusResponse, string, error) {
	query := url.Values{}
	query.Set("product_code", g.cfg.ProductCode)
	query.Set("total_amount", totalAmount)
	query.Set("transaction_uuid", transactionUUID)
	endpoint := fmt.Sprintf("%s/api/epay/transaction/status/?%s",
		strings.TrimRight(g.cfg.GatewayURL, "/"), query.Encode())

	var resp *http.Response
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		var req *http.Request
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, "", fmt.Errorf("failed to build esewa status request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		resp, err = g.client.Do(req)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, "", fmt.Errorf("esewa status lookup failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read esewa status response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("esewa status lookup returned %d: %s", resp.StatusCode, body)
	}

	var status esewaStatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, "", fmt.Errorf("failed to parse esewa status response: %w", err)
	}
	return &status, string(body), nil
}

// formatAmount renders an amount the way the signed form field carries it:
// no exponent, no trailing zeros.
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
