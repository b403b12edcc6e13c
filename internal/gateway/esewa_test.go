package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "8gBm/:&EnhH.1/q"

func signTest(t *testing.T, data string) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// encodeCallback builds the base64 payload eSewa appends to the redirect,
// signed over the canonical field string.
func encodeCallback(t *testing.T, transactionCode, status, totalAmount, transactionUUID string) string {
	t.Helper()

	signedFields := "transaction_code,status,total_amount,transaction_uuid,product_code,signed_field_names"
	signed := fmt.Sprintf(
		"transaction_code=%s,status=%s,total_amount=%s,transaction_uuid=%s,product_code=%s,signed_field_names=%s",
		transactionCode, status, totalAmount, transactionUUID, "EPAYTEST", signedFields)

	payload := map[string]string{
		"transaction_code":   transactionCode,
		"status":             status,
		"total_amount":       totalAmount,
		"transaction_uuid":   transactionUUID,
		"product_code":       "EPAYTEST",
		"signed_field_names": signedFields,
		"signature":          signTest(t, signed),
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func newEsewaWithStatus(t *testing.T, status, transactionUUID string, totalAmount float64) (*Esewa, *int) {
	t.Helper()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/epay/transaction/status/", r.URL.Path)
		assert.Equal(t, "EPAYTEST", r.URL.Query().Get("product_code"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":           status,
			"transaction_uuid": transactionUUID,
			"total_amount":     totalAmount,
			"ref_id":           "REF123",
		})
	}))
	t.Cleanup(server.Close)

	return NewEsewa(EsewaConfig{
		SecretKey:   testSecret,
		ProductCode: "EPAYTEST",
		GatewayURL:  server.URL,
	}, server.Client()), &calls
}

func TestEsewaInitiateSignsCanonicalString(t *testing.T) {
	esewa := NewEsewa(EsewaConfig{SecretKey: testSecret, ProductCode: "EPAYTEST"}, nil)

	initiation, err := esewa.Initiate(250, "order-1")
	require.NoError(t, err)

	expected := signTest(t, "total_amount=250,transaction_uuid=order-1,product_code=EPAYTEST")
	assert.Equal(t, expected, initiation.Signature)
	assert.Equal(t, "total_amount,transaction_uuid,product_code", initiation.SignedFieldNames)
}

func TestEsewaInitiateRequiresConfig(t *testing.T) {
	esewa := NewEsewa(EsewaConfig{}, nil)

	_, err := esewa.Initiate(250, "order-1")
	assert.Error(t, err)
}

func TestEsewaVerifyCallbackHappyPath(t *testing.T) {
	esewa, calls := newEsewaWithStatus(t, "COMPLETE", "order-1", 250)

	data := encodeCallback(t, "TXN001", "COMPLETE", "250", "order-1")
	verification, err := esewa.VerifyCallback(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, "order-1", verification.OrderID)
	assert.Equal(t, 250.0, verification.Amount)
	assert.Equal(t, "TXN001", verification.TransactionID)
	assert.NotEmpty(t, verification.RawPayload)
	assert.Equal(t, 1, *calls)
}

func TestEsewaVerifyCallbackStripsThousandsSeparators(t *testing.T) {
	esewa, _ := newEsewaWithStatus(t, "COMPLETE", "order-1", 1250)

	data := encodeCallback(t, "TXN001", "COMPLETE", "1,250", "order-1")
	verification, err := esewa.VerifyCallback(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 1250.0, verification.Amount)
}

func TestEsewaVerifyCallbackTamperedAmount(t *testing.T) {
	esewa, calls := newEsewaWithStatus(t, "COMPLETE", "order-1", 250)

	// Re-encode the payload with a different amount but the original
	// signature.
	data := encodeCallback(t, "TXN001", "COMPLETE", "250", "order-1")
	raw, err := base64.StdEncoding.DecodeString(data)
	require.NoError(t, err)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(raw, &payload))
	payload["total_amount"] = "1"
	tampered, err := json.Marshal(payload)
	require.NoError(t, err)

	_, err = esewa.VerifyCallback(context.Background(), base64.StdEncoding.EncodeToString(tampered))
	assert.ErrorIs(t, err, ErrInvalidInfo)

	// A signature mismatch never reaches the status endpoint.
	assert.Equal(t, 0, *calls)
}

func TestEsewaVerifyCallbackGatewayDisagrees(t *testing.T) {
	esewa, _ := newEsewaWithStatus(t, "CANCELED", "order-1", 250)

	data := encodeCallback(t, "TXN001", "COMPLETE", "250", "order-1")
	_, err := esewa.VerifyCallback(context.Background(), data)
	assert.ErrorIs(t, err, ErrInvalidInfo)
}

func TestEsewaVerifyCallbackMalformedData(t *testing.T) {
	esewa := NewEsewa(EsewaConfig{SecretKey: testSecret, ProductCode: "EPAYTEST"}, nil)

	_, err := esewa.VerifyCallback(context.Background(), "!!!not-base64!!!")
	assert.ErrorIs(t, err, ErrInvalidInfo)

	_, err = esewa.VerifyCallback(context.Background(), base64.StdEncoding.EncodeToString([]byte("not-json")))
	assert.ErrorIs(t, err, ErrInvalidInfo)
}
