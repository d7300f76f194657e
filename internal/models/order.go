package models

// Order is a purchase/shipment record. OrderNumber is assigned by the
// caller and is the sole lookup key; the store never generates it.
type Order struct {
	OrderNumber               string         `json:"orderNumber"`
	Customer                  string         `json:"customer"`
	TransactionDate           string         `json:"transactionDate"`
	Status                    string         `json:"status"`
	FromLocation              string         `json:"fromLocation"`
	ToLocation                string         `json:"toLocation"`
	PendingApprovalReasonCode []string       `json:"pendingApprovalReasonCode"`
	SupportRep                string         `json:"supportRep,omitempty"`
	Incoterm                  string         `json:"incoterm,omitempty"`
	FreightTerms              string         `json:"freightTerms,omitempty"`
	TotalShipUnitCount        int            `json:"totalShipUnitCount,omitempty"`
	TotalQuantity             int            `json:"totalQuantity,omitempty"`
	DiscountRate              float64        `json:"discountRate,omitempty"`
	BillingAddress            *Address       `json:"billingAddress,omitempty"`
	ShippingAddress           *Address       `json:"shippingAddress,omitempty"`
	EarlyPickupDate           string         `json:"earlyPickupDate,omitempty"`
	LatePickupDate            string         `json:"latePickupDate,omitempty"`
	Lines                     []OrderLine    `json:"lines"`
	History                   []HistoryEntry `json:"history,omitempty"`
}

// OrderLine is one item entry within an order. Amount is expected to
// equal Quantity * Price; that invariant belongs to the caller.
type OrderLine struct {
	Item     string  `json:"item"`
	Units    string  `json:"units"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Amount   float64 `json:"amount"`
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// HistoryEntry is one timestamped state-change event on an order.
// The on-disk sequence is unordered; ordering happens at read time.
type HistoryEntry struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
}

// Notification is one entry of the cross-order recent-activity feed.
type Notification struct {
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	OrderNumber string `json:"orderNumber"`
}
