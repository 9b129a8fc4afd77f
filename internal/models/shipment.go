package models

// Shipment tracking statuses reported by the carrier integrations.
const (
	ShipmentStatusLabelCreated   = "label_created"
	ShipmentStatusInTransit      = "in_transit"
	ShipmentStatusOutForDelivery = "out_for_delivery"
	ShipmentStatusDelivered      = "delivered"
	ShipmentStatusException      = "exception"
)

// Shipment is the carrier-integration payload consumed as trigger input.
// The carrier protocol itself lives elsewhere; only these denormalized
// fields reach the notification core.
type Shipment struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"trackingNumber"`
	TrackingURL    string `json:"trackingUrl"`
	IsReturn       bool   `json:"isReturn"`
	ReturnReason   string `json:"returnReason,omitempty"`
}

// ShipmentEvent is a single tracking event from a carrier webhook or poll.
type ShipmentEvent struct {
	Status      string `json:"status"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	EventDate   string `json:"eventDate"` // ISO 8601
}
