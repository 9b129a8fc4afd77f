package models

// Order statuses as written by the order controller.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// Order is the read-only trigger payload handed to the notification builders
// after the order controller commits its own mutation.
type Order struct {
	ID                string      `json:"id"`
	OrderNumber       string      `json:"orderNumber"`
	CustomerID        string      `json:"customerId"`
	Status            string      `json:"status"`
	Total             float64     `json:"total"`
	Items             []OrderItem `json:"items"`
	OrderDate         string      `json:"orderDate"`         // ISO 8601
	EstimatedDelivery string      `json:"estimatedDelivery"` // ISO 8601
	DeliveryDate      string      `json:"deliveryDate,omitempty"`
	TrackingNumber    string      `json:"trackingNumber,omitempty"`
	TrackingURL       string      `json:"trackingUrl,omitempty"`
}

type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// ItemCount returns the total quantity across all line items.
func (o Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}
