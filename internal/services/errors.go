package services

import "errors"

// ErrConflict marks a state-transition or referential-integrity violation:
// deleting a referenced brand or product, confirming a cancelled order,
// exceeding the image cap. Handlers report it as a client error.
var ErrConflict = errors.New("conflict")

// ErrInvalidPaymentMethod is returned when a billing block names a payment
// method the shop does not support.
var ErrInvalidPaymentMethod = errors.New("invalid payment method")
