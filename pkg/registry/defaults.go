package registry

// Defaults returns the built-in type registry. Email templates carry a
// {{name}} greeting and absolute links built from {{frontendUrl}}; in-app
// templates stay short.
func Defaults() *Registry {
	return &Registry{Types: []TypeDefinition{
		{
			Name:               "new_order",
			Description:        "A new order was placed containing one of your products",
			Template:           "Order #{{orderNumber}} placed: {{itemCount}} item(s), total ${{total}}",
			EmailTemplate:      "<p>Hi {{name}},</p><p>A new order <strong>#{{orderNumber}}</strong> was placed on {{orderDate}} with {{itemCount}} item(s), total ${{total}}.</p><p><a href=\"{{frontendUrl}}/vendor/orders/{{orderNumber}}\">View the order</a></p>",
			Category:           CategoryOrder,
			Icon:               "shopping-cart",
			Color:              "#2563eb",
			IsUserConfigurable: true,
		},
		{
			Name:               "order_confirmation",
			Description:        "Confirmation that your order was received",
			Template:           "Order #{{orderNumber}} confirmed, total ${{total}}",
			EmailTemplate:      "<p>Hi {{name}},</p><p>Thanks for your order <strong>#{{orderNumber}}</strong> (total ${{total}}). Estimated delivery: {{estimatedDelivery}}.</p><p><a href=\"{{frontendUrl}}/orders/{{orderNumber}}\">Track your order</a></p>",
			SMSTemplate:        "Order {{orderNumber}} confirmed. Total ${{total}}.",
			Category:           CategoryOrder,
			Icon:               "check-circle",
			Color:              "#16a34a",
			IsUserConfigurable: true,
		},
		{
			Name:               "order_status_update",
			Description:        "Your order status changed",
			Template:           "Order #{{orderNumber}} is now {{status}}. {{additionalInfo}}",
			EmailTemplate:      "<p>Hi {{name}},</p><p>Your order <strong>#{{orderNumber}}</strong> moved from {{previousStatus}} to <strong>{{status}}</strong>. {{additionalInfo}}</p><p><a href=\"{{frontendUrl}}/orders/{{orderNumber}}\">View your order</a></p>",
			Category:           CategoryOrder,
			Icon:               "refresh",
			Color:              "#2563eb",
			IsUserConfigurable: true,
		},
		{
			Name:               "order_shipped",
			Description:        "Your order has shipped",
			Template:           "Order #{{orderNumber}} shipped. Tracking: {{trackingNumber}}",
			EmailTemplate:      "<p>Hi {{name}},</p><p>Your order <strong>#{{orderNumber}}</strong> is on its way. Tracking number <a href=\"{{trackingUrl}}\">{{trackingNumber}}</a>, estimated delivery {{estimatedDelivery}}.</p>",
			SMSTemplate:        "Order {{orderNumber}} shipped. Track: {{trackingNumber}}",
			Category:           CategoryOrder,
			Icon:               "truck",
			Color:              "#9333ea",
			IsUserConfigurable: true,
		},
		{
			Name:               "order_delivered",
			Description:        "Your order was delivered",
			Template:           "Order #{{orderNumber}} was delivered on {{deliveryDate}}",
			EmailTemplate:      "<p>Hi {{name}},</p><p>Your order <strong>#{{orderNumber}}</strong> was delivered on {{deliveryDate}}. We hope you love your new window treatments!</p>",
			Category:           CategoryOrder,
			Icon:               "package",
			Color:              "#16a34a",
			IsUserConfigurable: true,
		},
		{
			Name:               "low_inventory",
			Description:        "A product variant dropped below its reorder threshold",
			Template:           "{{productName}} ({{materialName}}, {{colorName}}) is low: {{currentLevel}} left (threshold {{threshold}})",
			EmailTemplate:      "<p>Hi {{name}},</p><p><strong>{{productName}}</strong> ({{materialName}}, {{colorName}}) dropped to {{currentLevel}} units, below the reorder threshold of {{threshold}}.</p><p><a href=\"{{frontendUrl}}/admin/inventory\">Review inventory</a></p>",
			Category:           CategoryProduct,
			Icon:               "alert-triangle",
			Color:              "#d97706",
			IsUserConfigurable: true,
		},
		{
			Name:               "out_of_stock",
			Description:        "A product variant is fully depleted",
			Template:           "{{productName}} ({{materialName}}, {{colorName}}) is out of stock",
			EmailTemplate:      "<p>Hi {{name}},</p><p><strong>{{productName}}</strong> ({{materialName}}, {{colorName}}) is out of stock and can no longer be ordered.</p><p><a href=\"{{frontendUrl}}/admin/inventory\">Review inventory</a></p>",
			Category:           CategoryProduct,
			Icon:               "x-circle",
			Color:              "#dc2626",
			IsUserConfigurable: true,
		},
		{
			Name:               "new_question",
			Description:        "A customer opened a new support question",
			Template:           "New question about {{topic}}: {{subject}}",
			EmailTemplate:      "<p>Hi {{name}},</p><p>A customer asked about <strong>{{topic}}</strong>: {{subject}}</p><blockquote>{{message}}</blockquote><p><a href=\"{{frontendUrl}}/admin/questions\">Reply</a></p>",
			Category:           CategoryAccount,
			Icon:               "help-circle",
			Color:              "#2563eb",
			IsUserConfigurable: true,
		},
		{
			Name:               "question_reply",
			Description:        "A support question you follow received a reply",
			Template:           "New reply on {{subject}}",
			EmailTemplate:      "<p>Hi {{name}},</p><p>Your question <strong>{{subject}}</strong> ({{topic}}) has a new reply:</p><blockquote>{{replyMessage}}</blockquote>",
			Category:           CategoryAccount,
			Icon:               "message-circle",
			Color:              "#2563eb",
			IsUserConfigurable: true,
		},
		{
			Name:               "shipment_created",
			Description:        "A shipment was created for your order",
			Template:           "Shipment created for order #{{orderNumber}} via {{carrier}}",
			EmailTemplate:      "<p>Hi {{name}},</p><p>A {{carrier}} shipment was created for your order <strong>#{{orderNumber}}</strong>. Tracking number <a href=\"{{trackingUrl}}\">{{trackingNumber}}</a>.</p>",
			Category:           CategoryOrder,
			Icon:               "truck",
			Color:              "#9333ea",
			IsUserConfigurable: true,
		},
		{
			Name:               "shipping_update",
			Description:        "A tracking event occurred on your shipment",
			Template:           "{{description}} ({{location}})",
			EmailTemplate:      "<p>Hi {{name}},</p><p>{{description}}</p><p>Status: <strong>{{status}}</strong> at {{location}}, {{eventDate}}.</p>",
			Category:           CategoryOrder,
			Icon:               "map-pin",
			Color:              "#2563eb",
			IsUserConfigurable: true,
		},
		{
			Name:               "damage_report",
			Description:        "Damage was reported on a shipment of your product",
			Template:           "Damage reported on shipment {{trackingNumber}}: {{description}}",
			EmailTemplate:      "<p>Hi {{name}},</p><p>Damage was reported on shipment {{trackingNumber}} (order #{{orderNumber}}):</p><blockquote>{{description}}</blockquote>",
			Category:           CategorySystem,
			Icon:               "alert-octagon",
			Color:              "#dc2626",
			IsUserConfigurable: false,
		},
		{
			Name:               "damage_report_confirmation",
			Description:        "We received your damage report",
			Template:           "We received your damage report for order #{{orderNumber}} and will follow up shortly",
			EmailTemplate:      "<p>Hi {{name}},</p><p>We received your damage report for order <strong>#{{orderNumber}}</strong>:</p><blockquote>{{description}}</blockquote><p>Our team will follow up within one business day.</p>",
			Category:           CategorySystem,
			Icon:               "clipboard",
			Color:              "#d97706",
			IsUserConfigurable: false,
		},
		{
			Name:               "return_created",
			Description:        "A return shipment was created for your order",
			Template:           "Return label created for order #{{orderNumber}}. Tracking: {{trackingNumber}}",
			EmailTemplate:      "<p>Hi {{name}},</p><p>Your return ({{returnReason}}) was approved. Use tracking number <a href=\"{{trackingUrl}}\">{{trackingNumber}}</a> to send the item back.</p>",
			Category:           CategoryOrder,
			Icon:               "rotate-ccw",
			Color:              "#2563eb",
			IsUserConfigurable: true,
		},
	}}
}
