// Package template renders notification type templates against event data.
// Rendering is a pure function: unknown fields become empty strings and no
// input ever causes an error.
package template

import (
	"fmt"
	"strings"
)

// Data is the flat field set a builder extracts from its domain object.
type Data map[string]interface{}

// String returns the field rendered the same way Render would inline it.
func (d Data) String(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// With returns a copy of d extended with one extra field. Used to add the
// per-recipient name before rendering an email body.
func (d Data) With(key string, value interface{}) Data {
	out := make(Data, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	out[key] = value
	return out
}

// Render interpolates {{field}} placeholders in src from data. Placeholders
// with no matching field render as empty strings, never as "<nil>" or
// literal placeholder text.
func Render(src string, data Data) string {
	result := src

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if i, ok := v.(int); ok {
			value = fmt.Sprintf("%d", i)
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Strip any remaining placeholders (missing fields).
	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}

// Title computes the human title for a notification. Titles are a rule keyed
// by type name rather than a stored template so that historical titles stay
// stable when an administrator edits a body template. Unknown type names fall
// back to a generic site-name title.
func Title(typeName, siteName string, data Data) string {
	switch typeName {
	case "new_order":
		return "New Order #" + data.String("orderNumber")
	case "order_confirmation":
		return "Order Confirmed #" + data.String("orderNumber")
	case "order_status_update":
		return "Order #" + data.String("orderNumber") + " " + data.String("status")
	case "order_shipped":
		return "Order #" + data.String("orderNumber") + " Shipped"
	case "order_delivered":
		return "Order #" + data.String("orderNumber") + " Delivered"
	case "low_inventory":
		return "Low Inventory Alert: " + data.String("productName")
	case "out_of_stock":
		return "Out of Stock: " + data.String("productName")
	case "new_question":
		return "New Question: " + data.String("subject")
	case "question_reply":
		return "New Reply: " + data.String("subject")
	case "shipment_created":
		return "Shipment Created for Order #" + data.String("orderNumber")
	case "shipping_update":
		return "Shipping Update: " + data.String("status")
	case "damage_report":
		return "Damage Reported on Shipment " + data.String("trackingNumber")
	case "damage_report_confirmation":
		return "We Received Your Damage Report"
	case "return_created":
		return "Return Label Created"
	default:
		return siteName + " Notification"
	}
}
