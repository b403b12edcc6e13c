package models

import "time"

// Gateways a payment can be recorded against.
const (
	GatewayEsewa  = "esewa"
	GatewayCOD    = "cash on delivery"
	GatewayKhalti = "khalti"
)

// Payment record states.
const (
	PaymentSuccess = "success"
	PaymentPending = "pending"
	PaymentFailed  = "failed"
)

// Payment is a transaction record tied to an order. For external gateways the
// raw verification payload and the original callback query are kept for
// audit. For cash-on-delivery the transaction id is synthesized from the
// payment's own id when absent.
type Payment struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TransactionID    string    `json:"transactionId" gorm:"type:varchar(100);index"`
	Pidx             string    `json:"pidx" gorm:"type:varchar(100);index"`
	OrderID          string    `json:"orderId" gorm:"type:varchar(36);index"`
	Amount           float64   `json:"amount"`
	VerificationData string    `json:"dataFromVerificationReq,omitempty" gorm:"type:text"`
	CallbackQuery    string    `json:"apiQueryFromUser,omitempty" gorm:"type:text"`
	PaymentGateway   string    `json:"paymentGateway"`
	Status           string    `json:"status"`
	PaymentDate      time.Time `json:"paymentDate"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
