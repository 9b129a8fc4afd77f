// Package events holds one thin builder per business event. A builder
// resolves the audience, flattens the domain object into template fields,
// and hands off to the dispatcher. Builders never propagate errors: a
// notification outage must not roll back or block the business action that
// triggered it.
package events

import (
	"context"

	"storefront-notifications/internal/common/logger"
	"storefront-notifications/internal/models"
	"storefront-notifications/internal/notification/dispatch"
	"storefront-notifications/internal/notification/recipients"
	"storefront-notifications/internal/notification/store"
	"storefront-notifications/internal/notification/template"
)

// Dispatcher is the slice of the dispatch API the builders call.
type Dispatcher interface {
	Create(ctx context.Context, typeName string, data template.Data, source dispatch.SourceRef, userIDs []string, opts ...dispatch.Option) (*store.Notification, error)
}

// Notifier exposes the trigger surface called by the order, shipment,
// inventory, and question controllers after their own mutation commits.
type Notifier struct {
	dispatcher Dispatcher
	resolver   recipients.Resolver
	logger     logger.Logger
}

func NewNotifier(d Dispatcher, r recipients.Resolver, log logger.Logger) *Notifier {
	return &Notifier{
		dispatcher: d,
		resolver:   r,
		logger:     log.WithFields(map[string]interface{}{"component": "events"}),
	}
}

// NewOrder notifies the vendors behind an order's line items.
func (n *Notifier) NewOrder(ctx context.Context, order models.Order) {
	vendorIDs, err := n.resolver.VendorsForOrder(ctx, order.ID)
	if err != nil {
		n.logFailure("new_order", err)
		return
	}

	data := template.Data{
		"orderNumber": order.OrderNumber,
		"total":       order.Total,
		"itemCount":   order.ItemCount(),
		"orderDate":   order.OrderDate,
	}
	n.create(ctx, "new_order", data, orderSource(order), vendorIDs)
}

// OrderConfirmation acknowledges a placed order to its customer.
func (n *Notifier) OrderConfirmation(ctx context.Context, order models.Order) {
	data := template.Data{
		"orderNumber":       order.OrderNumber,
		"total":             order.Total,
		"estimatedDelivery": order.EstimatedDelivery,
	}
	n.create(ctx, "order_confirmation", data, orderSource(order), []string{order.CustomerID})
}

// OrderStatusUpdate notifies the customer of a status transition. Fires only
// when the status actually changed; redundant writes are a no-op. Shipped and
// delivered transitions additionally fire their specialized notifications.
func (n *Notifier) OrderStatusUpdate(ctx context.Context, order models.Order, previousStatus, additionalInfo string) {
	if order.Status == previousStatus {
		return
	}

	data := template.Data{
		"orderNumber":    order.OrderNumber,
		"status":         order.Status,
		"previousStatus": previousStatus,
		"additionalInfo": additionalInfo,
	}
	n.create(ctx, "order_status_update", data, orderSource(order), []string{order.CustomerID})

	switch order.Status {
	case models.OrderStatusShipped:
		n.OrderShipped(ctx, order)
	case models.OrderStatusDelivered:
		n.OrderDelivered(ctx, order)
	}
}

// OrderShipped notifies the customer their order left the warehouse.
func (n *Notifier) OrderShipped(ctx context.Context, order models.Order) {
	data := template.Data{
		"orderNumber":       order.OrderNumber,
		"trackingNumber":    order.TrackingNumber,
		"trackingUrl":       order.TrackingURL,
		"estimatedDelivery": order.EstimatedDelivery,
	}
	n.create(ctx, "order_shipped", data, orderSource(order), []string{order.CustomerID})
}

// OrderDelivered notifies the customer their order arrived.
func (n *Notifier) OrderDelivered(ctx context.Context, order models.Order) {
	data := template.Data{
		"orderNumber":  order.OrderNumber,
		"deliveryDate": order.DeliveryDate,
	}
	n.create(ctx, "order_delivered", data, orderSource(order), []string{order.CustomerID})
}

// LowInventory alerts admins and the product's vendors that a variant
// crossed its reorder threshold.
func (n *Notifier) LowInventory(ctx context.Context, alert models.InventoryAlert, vendorIDs []string) {
	data := template.Data{
		"productName":  alert.ProductName,
		"materialName": alert.MaterialName,
		"colorName":    alert.ColorName,
		"currentLevel": alert.CurrentLevel,
		"threshold":    alert.Threshold,
	}
	n.create(ctx, "low_inventory", data, inventorySource(alert), n.withAdmins(ctx, "low_inventory", vendorIDs))
}

// OutOfStock alerts admins and the product's vendors that a variant hit zero.
func (n *Notifier) OutOfStock(ctx context.Context, alert models.InventoryAlert, vendorIDs []string) {
	data := template.Data{
		"productName":  alert.ProductName,
		"materialName": alert.MaterialName,
		"colorName":    alert.ColorName,
	}
	n.create(ctx, "out_of_stock", data, inventorySource(alert), n.withAdmins(ctx, "out_of_stock", vendorIDs))
}

// NewQuestion notifies admins, the assignee, and the product's vendors that
// a customer opened a support thread.
func (n *Notifier) NewQuestion(ctx context.Context, question models.Question) {
	audience, err := n.resolver.Admins(ctx)
	if err != nil {
		n.logFailure("new_question", err)
		return
	}
	if question.AssigneeID != "" {
		audience = append(audience, question.AssigneeID)
	}
	if question.ProductID != "" {
		vendorIDs, err := n.resolver.VendorsForProduct(ctx, question.ProductID)
		if err != nil {
			n.logFailure("new_question", err)
		} else {
			audience = append(audience, vendorIDs...)
		}
	}

	data := template.Data{
		"topic":   question.Topic,
		"subject": question.Subject,
		"message": question.Message,
	}
	n.create(ctx, "new_question", data, questionSource(question), audience)
}

// QuestionReply notifies the other party of a support thread reply. The
// replier themselves is always excluded.
func (n *Notifier) QuestionReply(ctx context.Context, question models.Question, reply models.QuestionReply) {
	var audience []string
	if reply.AuthorID == question.CustomerID {
		// Customer replied: route to the staff side.
		admins, err := n.resolver.Admins(ctx)
		if err != nil {
			n.logFailure("question_reply", err)
			return
		}
		audience = admins
		if question.AssigneeID != "" {
			audience = append(audience, question.AssigneeID)
		}
	} else {
		audience = []string{question.CustomerID}
	}
	audience = exclude(audience, reply.AuthorID)

	data := template.Data{
		"topic":        question.Topic,
		"subject":      question.Subject,
		"replyMessage": reply.Message,
	}
	n.create(ctx, "question_reply", data, questionSource(question), audience)
}

// ShipmentCreated notifies the customer a shipment label exists for their
// order.
func (n *Notifier) ShipmentCreated(ctx context.Context, order models.Order, shipment models.Shipment) {
	data := template.Data{
		"orderNumber":    order.OrderNumber,
		"carrier":        shipment.Carrier,
		"trackingNumber": shipment.TrackingNumber,
		"trackingUrl":    shipment.TrackingURL,
	}
	n.create(ctx, "shipment_created", data, shipmentSource(shipment), []string{order.CustomerID})
}

// ShippingUpdate notifies the customer of a carrier tracking event. Mid-
// transit events stay in-app only; email goes out for out_for_delivery,
// delivered, and exception statuses.
func (n *Notifier) ShippingUpdate(ctx context.Context, order models.Order, shipment models.Shipment, event models.ShipmentEvent) {
	data := template.Data{
		"orderNumber":    order.OrderNumber,
		"description":    event.Description,
		"status":         event.Status,
		"eventDate":      event.EventDate,
		"location":       event.Location,
		"trackingNumber": shipment.TrackingNumber,
		"trackingUrl":    shipment.TrackingURL,
	}

	var opts []dispatch.Option
	switch event.Status {
	case models.ShipmentStatusOutForDelivery, models.ShipmentStatusDelivered, models.ShipmentStatusException:
	default:
		opts = append(opts, dispatch.WithoutEmail())
	}
	n.create(ctx, "shipping_update", data, shipmentSource(shipment), []string{order.CustomerID}, opts...)
}

// ShipmentDamage files a damage report with the vendors and admins, then
// separately acknowledges the customer. The two dispatches fail
// independently.
func (n *Notifier) ShipmentDamage(ctx context.Context, order models.Order, shipment models.Shipment, description string) {
	data := template.Data{
		"orderNumber":    order.OrderNumber,
		"trackingNumber": shipment.TrackingNumber,
		"description":    description,
	}

	audience, err := n.resolver.VendorsForOrder(ctx, order.ID)
	if err != nil {
		n.logFailure("damage_report", err)
	} else {
		audience = append(audience, n.withAdmins(ctx, "damage_report", nil)...)
		n.create(ctx, "damage_report", data, shipmentSource(shipment), audience, dispatch.WithPriority(store.PriorityHigh))
	}

	n.create(ctx, "damage_report_confirmation", data, shipmentSource(shipment), []string{order.CustomerID})
}

// ReturnShipment notifies the customer their return label is ready.
func (n *Notifier) ReturnShipment(ctx context.Context, order models.Order, returnShipment models.Shipment) {
	data := template.Data{
		"orderNumber":    order.OrderNumber,
		"returnReason":   returnShipment.ReturnReason,
		"trackingNumber": returnShipment.TrackingNumber,
		"trackingUrl":    returnShipment.TrackingURL,
	}
	n.create(ctx, "return_created", data, shipmentSource(returnShipment), []string{order.CustomerID})
}

// create dispatches and swallows any failure. The triggering business
// transaction already committed; nothing downstream may undo it.
func (n *Notifier) create(ctx context.Context, typeName string, data template.Data, source dispatch.SourceRef, userIDs []string, opts ...dispatch.Option) {
	if _, err := n.dispatcher.Create(ctx, typeName, data, source, userIDs, opts...); err != nil {
		n.logFailure(typeName, err)
	}
}

func (n *Notifier) withAdmins(ctx context.Context, typeName string, ids []string) []string {
	admins, err := n.resolver.Admins(ctx)
	if err != nil {
		n.logFailure(typeName, err)
		return ids
	}
	// Copy before appending so the caller's slice is never written through.
	return append(append([]string(nil), ids...), admins...)
}

func (n *Notifier) logFailure(typeName string, err error) {
	n.logger.Error("notification dispatch failed", map[string]interface{}{
		"type":  typeName,
		"error": err,
	})
}

func exclude(ids []string, drop string) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

func orderSource(order models.Order) dispatch.SourceRef {
	return dispatch.SourceRef{Type: "order", ID: order.ID}
}

func shipmentSource(shipment models.Shipment) dispatch.SourceRef {
	return dispatch.SourceRef{Type: "shipment", ID: shipment.ID}
}

func inventorySource(alert models.InventoryAlert) dispatch.SourceRef {
	return dispatch.SourceRef{Type: "product", ID: alert.ProductID}
}

func questionSource(question models.Question) dispatch.SourceRef {
	return dispatch.SourceRef{Type: "question", ID: question.ID}
}
