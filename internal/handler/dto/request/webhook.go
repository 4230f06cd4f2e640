package request

// PaymentWebhookRequest is the envelope the payment provider posts. Booking
// linkage travels in Data.Metadata under the "booking_id" key.
type PaymentWebhookRequest struct {
	EventID string           `json:"event_id" binding:"required"`
	Type    string           `json:"type" binding:"required"`
	Data    PaymentEventData `json:"data" binding:"required"`
}

type PaymentEventData struct {
	TransactionRef string            `json:"transaction_ref" binding:"required"`
	AmountCents    int64             `json:"amount_cents"`
	Metadata       map[string]string `json:"metadata"`
}

func (d PaymentEventData) BookingID() (string, bool) {
	id, ok := d.Metadata["booking_id"]
	return id, ok
}
