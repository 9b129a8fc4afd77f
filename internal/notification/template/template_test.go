package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		data     Data
		expected string
	}{
		{
			name:     "order confirmation round trip",
			src:      "Order #{{orderNumber}} confirmed, total ${{total}}",
			data:     Data{"orderNumber": "SB-240101-0001", "total": 42.5},
			expected: "Order #SB-240101-0001 confirmed, total $42.5",
		},
		{
			name:     "missing field renders empty",
			src:      "Hello {{name}}, order {{orderNumber}} is ready",
			data:     Data{"orderNumber": "SB-240101-0002"},
			expected: "Hello , order SB-240101-0002 is ready",
		},
		{
			name:     "nil value renders empty",
			src:      "Status: {{status}}",
			data:     Data{"status": nil},
			expected: "Status: ",
		},
		{
			name:     "integer field",
			src:      "{{itemCount}} items",
			data:     Data{"itemCount": 3},
			expected: "3 items",
		},
		{
			name:     "no placeholders",
			src:      "plain text",
			data:     Data{"unused": "x"},
			expected: "plain text",
		},
		{
			name:     "empty template",
			src:      "",
			data:     Data{"orderNumber": "SB-1"},
			expected: "",
		},
		{
			name:     "repeated placeholder",
			src:      "{{n}} and {{n}}",
			data:     Data{"n": "twice"},
			expected: "twice and twice",
		},
		{
			name:     "unterminated placeholder left alone",
			src:      "broken {{field",
			data:     Data{},
			expected: "broken {{field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.src, tt.data))
		})
	}
}

func TestRenderNeverEmitsLiteralNil(t *testing.T) {
	out := Render("value: {{v}}", Data{"v": nil})
	assert.NotContains(t, out, "nil")
	assert.NotContains(t, out, "null")
	assert.NotContains(t, out, "undefined")
}

func TestDataWith(t *testing.T) {
	base := Data{"orderNumber": "SB-1"}
	extended := base.With("name", "Ana")

	assert.Equal(t, "Ana", extended.String("name"))
	// The original map is not mutated.
	_, ok := base["name"]
	assert.False(t, ok)
}

func TestTitle(t *testing.T) {
	tests := []struct {
		typeName string
		data     Data
		expected string
	}{
		{"new_order", Data{"orderNumber": "SB-240101-0001"}, "New Order #SB-240101-0001"},
		{"order_confirmation", Data{"orderNumber": "SB-2"}, "Order Confirmed #SB-2"},
		{"order_status_update", Data{"orderNumber": "SB-3", "status": "Shipped"}, "Order #SB-3 Shipped"},
		{"order_shipped", Data{"orderNumber": "SB-3"}, "Order #SB-3 Shipped"},
		{"order_delivered", Data{"orderNumber": "SB-4"}, "Order #SB-4 Delivered"},
		{"low_inventory", Data{"productName": "Roller Blind"}, "Low Inventory Alert: Roller Blind"},
		{"out_of_stock", Data{"productName": "Roman Shade"}, "Out of Stock: Roman Shade"},
		{"new_question", Data{"subject": "Mount depth"}, "New Question: Mount depth"},
		{"question_reply", Data{"subject": "Mount depth"}, "New Reply: Mount depth"},
		{"shipment_created", Data{"orderNumber": "SB-5"}, "Shipment Created for Order #SB-5"},
		{"shipping_update", Data{"status": "out_for_delivery"}, "Shipping Update: out_for_delivery"},
		{"return_created", Data{}, "Return Label Created"},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			assert.Equal(t, tt.expected, Title(tt.typeName, "Smart Blinds", tt.data))
		})
	}
}

func TestTitleUnknownTypeFallsBack(t *testing.T) {
	assert.Equal(t, "Smart Blinds Notification", Title("mystery_type", "Smart Blinds", Data{}))
}
