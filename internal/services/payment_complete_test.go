package services

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

	"phoneshop/internal/gateway"
	"phoneshop/internal/models"
	"phoneshop/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func esewaSign(secret, data string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestCompleteEsewaPaymentMarksOrderPaid(t *testing.T) {
	const secret = "test-secret"

	products := repositories.NewMockProductRepository()
	carts := repositories.NewMockCartRepository()
	orders := repositories.NewMockOrderRepository(products, carts)
	payments := repositories.NewMockPaymentRepository()

	order := &models.Order{
		UserID:        "user-1",
		Status:        models.OrderStatusPending,
		TotalAmount:   250,
		PaymentStatus: models.PaymentStatusPending,
	}
	require.NoError(t, orders.Place(order))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":           "COMPLETE",
			"transaction_uuid": order.ID,
			"total_amount":     250,
			"ref_id":           "REF1",
		})
	}))
	t.Cleanup(server.Close)

	esewa := gateway.NewEsewa(gateway.EsewaConfig{
		SecretKey:   secret,
		ProductCode: "EPAYTEST",
		GatewayURL:  server.URL,
	}, server.Client())
	service := NewPaymentService(payments, orders, esewa, nil)

	signedFields := "transaction_code,status,total_amount,transaction_uuid,product_code,signed_field_names"
	signed := fmt.Sprintf(
		"transaction_code=%s,status=%s,total_amount=%s,transaction_uuid=%s,product_code=%s,signed_field_names=%s",
		"TXN001", "COMPLETE", "250", order.ID, "EPAYTEST", signedFields)
	payload, err := json.Marshal(map[string]string{
		"transaction_code":   "TXN001",
		"status":             "COMPLETE",
		"total_amount":       "250",
		"transaction_uuid":   order.ID,
		"product_code":       "EPAYTEST",
		"signed_field_names": signedFields,
		"signature":          esewaSign(secret, signed),
	})
	require.NoError(t, err)
	data := base64.StdEncoding.EncodeToString(payload)

	orderID, err := service.CompleteEsewaPayment(context.Background(), data, "data="+data)
	require.NoError(t, err)
	assert.Equal(t, order.ID, orderID)

	// The order's payment status flips to paid.
	updated, err := orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, updated.Status)

	// And a successful payment record carries the audit payloads.
	recorded, err := payments.GetByOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, models.PaymentSuccess, recorded[0].Status)
	assert.Equal(t, models.GatewayEsewa, recorded[0].PaymentGateway)
	assert.Equal(t, "TXN001", recorded[0].TransactionID)
	assert.Equal(t, 250.0, recorded[0].Amount)
	assert.NotEmpty(t, recorded[0].VerificationData)
	assert.NotEmpty(t, recorded[0].CallbackQuery)
}

func TestCompleteEsewaPaymentRejectsTamperedCallback(t *testing.T) {
	payments := repositories.NewMockPaymentRepository()
	products := repositories.NewMockProductRepository()
	carts := repositories.NewMockCartRepository()
	orders := repositories.NewMockOrderRepository(products, carts)

	esewa := gateway.NewEsewa(gateway.EsewaConfig{
		SecretKey:   "test-secret",
		ProductCode: "EPAYTEST",
	}, nil)
	service := NewPaymentService(payments, orders, esewa, nil)

	payload, err := json.Marshal(map[string]string{
		"transaction_code":   "TXN001",
		"status":             "COMPLETE",
		"total_amount":       "250",
		"transaction_uuid":   "order-1",
		"product_code":       "EPAYTEST",
		"signed_field_names": "transaction_code,status,total_amount,transaction_uuid,product_code,signed_field_names",
		"signature":          "bogus",
	})
	require.NoError(t, err)

	_, err = service.CompleteEsewaPayment(context.Background(), base64.StdEncoding.EncodeToString(payload), "")
	assert.ErrorIs(t, err, gateway.ErrInvalidInfo)

	// Nothing recorded on a failed verification.
	recorded, err := payments.GetByOrder("order-1")
	require.NoError(t, err)
	assert.Empty(t, recorded)
}

func TestCompleteKhaltiPaymentMarksOrderPaid(t *testing.T) {
	products := repositories.NewMockProductRepository()
	carts := repositories.NewMockCartRepository()
	orders := repositories.NewMockOrderRepository(products, carts)
	payments := repositories.NewMockPaymentRepository()

	order := &models.Order{
		UserID:        "user-1",
		Status:        models.OrderStatusPending,
		TotalAmount:   250,
		PaymentStatus: models.PaymentStatusPending,
	}
	require.NoError(t, orders.Place(order))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"pidx":           "pidx-1",
			"total_amount":   25000,
			"status":         "Completed",
			"transaction_id": "txn-1",
		})
	}))
	t.Cleanup(server.Close)

	khalti := gateway.NewKhalti(gateway.KhaltiConfig{
		SecretKey:  "secret",
		GatewayURL: server.URL,
	}, server.Client())
	service := NewPaymentService(payments, orders, nil, khalti)

	orderID, err := service.CompleteKhaltiPayment(context.Background(), gateway.KhaltiCallback{
		Pidx:            "pidx-1",
		Amount:          25000,
		PurchaseOrderID: order.ID,
		TransactionID:   "txn-1",
	}, "pidx=pidx-1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, orderID)

	updated, err := orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)

	recorded, err := payments.GetByOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, models.GatewayKhalti, recorded[0].PaymentGateway)
	assert.Equal(t, "pidx-1", recorded[0].Pidx)
	assert.Equal(t, 25000.0, recorded[0].Amount)
}
