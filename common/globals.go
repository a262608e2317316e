package common

const (
	RequestStatusPending = "PENDING"
	RequestStatusPaid    = "PAID"

	RequestIdPrefix = "REQ-"
	RequestIdLength = 9
	RequestLinkPath = "/r/"

	DefaultNetwork = "sepolia"

	PaymentScheme = "x402"

	HeaderPaymentScheme   = "X-Payment-Scheme"
	HeaderPaymentAmount   = "X-Payment-Amount"
	HeaderPaymentToken    = "X-Payment-Token"
	HeaderPaymentNetwork  = "X-Payment-Network"
	HeaderPaymentReceiver = "X-Payment-Receiver"

	EventTypeRequestSettled = "request.settled"
)
