// Package purchase implements the purchase pipeline: reserve inventory,
// record an order, charge the payment instrument, confirm the charge and
// email a receipt, executed as one forward-only sequence per request.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"purchaseflow/pkg/item"
	"purchaseflow/pkg/logger"
	"purchaseflow/pkg/notify"
	"purchaseflow/pkg/order"
	"purchaseflow/pkg/otel"
	"purchaseflow/pkg/payment"
)

// Currency is the only currency the pipeline charges in.
const Currency = "USD"

// Request carries everything needed for one purchase attempt.
type Request struct {
	ItemName     string `json:"item_name"`
	Size         string `json:"size,omitempty"`
	PaymentToken string `json:"payment_token"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	CityState    string `json:"city_state"`
	Zip          string `json:"zip"`
}

// Validate reports the first missing required field.
func (r Request) Validate() error {
	required := []struct{ name, value string }{
		{"item_name", r.ItemName},
		{"payment_token", r.PaymentToken},
		{"name", r.Name},
		{"email", r.Email},
		{"address", r.Address},
		{"city_state", r.CityState},
		{"zip", r.Zip},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("missing required field %q", f.name)
		}
	}
	return nil
}

// FailureClass classifies a purchase failure for the caller.
type FailureClass string

// Failure classes, in ascending severity. NotificationFailure is reported on
// a success outcome, not a failure.
const (
	ClassNone                  FailureClass = ""
	ClassNotFound              FailureClass = "not_found"
	ClassOutOfStock            FailureClass = "out_of_stock"
	ClassTransientWriteError   FailureClass = "transient_write_error"
	ClassPaymentDeclined       FailureClass = "payment_declined"
	ClassCriticalInconsistency FailureClass = "critical_inconsistency"
	ClassNotificationFailure   FailureClass = "notification_failure"
)

// Status is the overall result of a purchase attempt.
type Status string

const (
	// StatusSucceeded means the purchase completed and the receipt was sent.
	StatusSucceeded Status = "succeeded"
	// StatusReceiptPending means the purchase completed but the receipt
	// email was not delivered; the buyer should watch for manual follow-up.
	StatusReceiptPending Status = "succeeded_receipt_pending"
	// StatusFailed means the purchase did not complete.
	StatusFailed Status = "failed"
)

// Outcome is the user-facing result of one purchase attempt.
type Outcome struct {
	Status  Status       `json:"status"`
	Message string       `json:"message,omitempty"`
	Class   FailureClass `json:"class,omitempty"`
	OrderID string       `json:"order_id,omitempty"`
}

// Succeeded reports whether the purchase completed, regardless of receipt
// delivery.
func (o Outcome) Succeeded() bool {
	return o.Status != StatusFailed
}

// Orchestrator sequences the purchase stages. It is stateless between
// invocations; all collaborators are injected once at startup.
type Orchestrator struct {
	items   item.Repository
	orders  order.Repository
	gateway payment.Gateway
	mailer  notify.Mailer
	from    string
	log     *logger.Logger
}

// New constructs an Orchestrator. from is the receipt sender address.
func New(items item.Repository, orders order.Repository, gateway payment.Gateway, mailer notify.Mailer, from string, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		items:   items,
		orders:  orders,
		gateway: gateway,
		mailer:  mailer,
		from:    from,
		log:     log,
	}
}

// state is the accumulated context handed from stage to stage.
type state struct {
	req  Request
	item item.Item
	ord  order.Order
}

type stageFn func(ctx context.Context, st *state) *Outcome

// Purchase runs the pipeline for one request. Stages run strictly in order;
// the first failure short-circuits the rest and is returned as a classified
// outcome. There are no automatic retries and no compensation: a decremented
// stock count is never re-incremented by this flow.
func (o *Orchestrator) Purchase(ctx context.Context, req Request) Outcome {
	ctx, span := otel.AddSpan(ctx, "purchase")
	defer span.End()

	if strings.TrimSpace(req.Size) == "" {
		req.Size = order.SizeNotApplicable
	}

	st := &state{req: req}
	stages := []stageFn{
		o.lookupItem,
		o.reserveInventory,
		o.createOrder,
		o.capturePayment,
		o.confirmOrder,
	}
	for _, stage := range stages {
		if out := stage(ctx, st); out != nil {
			return *out
		}
	}
	return o.sendReceipt(ctx, st)
}

// lookupItem resolves the item by name. A lookup error is surfaced
// immediately with the same generic message as not-found so store internals
// do not leak to the caller; the real error still lands in the logs.
func (o *Orchestrator) lookupItem(ctx context.Context, st *state) *Outcome {
	ctx, span := otel.AddSpan(ctx, "purchase.lookup_item")
	defer span.End()

	it, err := o.items.FindByName(ctx, st.req.ItemName)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			o.log.Info(ctx, "item not found", "item", st.req.ItemName)
		} else {
			o.log.Error(ctx, "item lookup", "item", st.req.ItemName, "error", err)
		}
		return failure("item unavailable", ClassNotFound)
	}
	st.item = it
	return nil
}

// reserveInventory reserves one unit in a single store-side conditional
// decrement, so two buyers who both saw one unit left can never both take
// it; the loser of the race gets out-of-stock. A quantity of exactly 0 after
// the decrement means the last unit sold and the reservation stands.
func (o *Orchestrator) reserveInventory(ctx context.Context, st *state) *Outcome {
	ctx, span := otel.AddSpan(ctx, "purchase.reserve_inventory")
	defer span.End()

	if st.item.QuantityAvailable <= 0 {
		o.log.Info(ctx, "out of stock", "item", st.item.Name)
		return failure("out of stock", ClassOutOfStock)
	}
	it, err := o.items.DecrementIfAvailable(ctx, st.item.Name)
	switch {
	case errors.Is(err, item.ErrOutOfStock):
		// Lost the race: a concurrent reservation took the last unit between
		// the lookup and this decrement.
		o.log.Info(ctx, "out of stock", "item", st.item.Name)
		return failure("out of stock", ClassOutOfStock)
	case errors.Is(err, item.ErrNotFound):
		o.log.Info(ctx, "item removed during reservation", "item", st.item.Name)
		return failure("item unavailable", ClassNotFound)
	case err != nil:
		// Write failed before any money moved; safe for the caller to retry
		// the whole flow.
		o.log.Error(ctx, "reserve inventory", "item", st.item.Name, "error", err)
		return failure("not charged — retry", ClassTransientWriteError)
	}
	st.item = it
	return nil
}

// createOrder persists the unpaid order before any money moves, so a charge
// can never exist without a matching order record. A write failure here
// leaves the reservation in place; the leaked unit is accepted rather than
// compensated.
func (o *Orchestrator) createOrder(ctx context.Context, st *state) *Outcome {
	ctx, span := otel.AddSpan(ctx, "purchase.create_order")
	defer span.End()

	st.ord = order.Order{
		ID:        uuid.New().String(),
		Name:      st.req.Name,
		Email:     st.req.Email,
		Address:   st.req.Address,
		CityState: st.req.CityState,
		Zip:       st.req.Zip,
		Size:      st.req.Size,
		ItemName:  st.item.Name,
		ItemPrice: st.item.Price,
		Fulfilled: false,
		Charged:   false,
	}
	if err := o.orders.Create(ctx, st.ord); err != nil {
		o.log.Error(ctx, "create order", "item", st.item.Name, "error", err)
		return failure("not charged — retry", ClassTransientWriteError)
	}
	return nil
}

// capturePayment charges the instrument for the item price. This is the
// point of no return: once the gateway confirms, the order must be
// reconciled even if later stages fail.
func (o *Orchestrator) capturePayment(ctx context.Context, st *state) *Outcome {
	ctx, span := otel.AddSpan(ctx, "purchase.capture_payment")
	defer span.End()

	amount := st.item.Price.Mul(decimal.NewFromInt(100)).IntPart()
	ref, err := o.gateway.Charge(ctx, amount, Currency, st.req.PaymentToken)
	if err != nil {
		o.log.Error(ctx, "capture payment", "order_id", st.ord.ID, "error", err)
		out := failure("not charged — retry", ClassPaymentDeclined)
		out.OrderID = st.ord.ID
		return out
	}
	st.ord.Charged = true
	st.ord.PaymentReference = ref
	return nil
}

// confirmOrder records the successful charge on the order. A failure here is
// the most severe class: money moved but the system of record does not show
// it. It is never retried automatically; it must surface for human
// reconciliation.
func (o *Orchestrator) confirmOrder(ctx context.Context, st *state) *Outcome {
	ctx, span := otel.AddSpan(ctx, "purchase.confirm_order")
	defer span.End()

	if err := o.orders.Update(ctx, st.ord); err != nil {
		o.log.Error(ctx, "confirm order after charge", "order_id", st.ord.ID,
			"payment_reference", st.ord.PaymentReference, "error", err)
		out := failure("critical — contact support with payment details", ClassCriticalInconsistency)
		out.OrderID = st.ord.ID
		return out
	}
	return nil
}

// sendReceipt emails the buyer. The purchase already succeeded financially,
// so a delivery failure downgrades the outcome to receipt-pending rather
// than failing the purchase. This is the one place an error is deliberately
// logged and carried no further.
func (o *Orchestrator) sendReceipt(ctx context.Context, st *state) Outcome {
	ctx, span := otel.AddSpan(ctx, "purchase.send_receipt")
	defer span.End()

	subject := fmt.Sprintf("Your %s order", st.item.Name)
	if err := o.mailer.Send(ctx, st.req.Email, o.from, subject, receiptBody(st)); err != nil {
		o.log.Warn(ctx, "receipt not delivered", "order_id", st.ord.ID, "error", err)
		return Outcome{
			Status:  StatusReceiptPending,
			Message: "purchase succeeded, receipt not delivered",
			Class:   ClassNotificationFailure,
			OrderID: st.ord.ID,
		}
	}
	return Outcome{Status: StatusSucceeded, Message: "purchase complete", OrderID: st.ord.ID}
}

// receiptBody composes the receipt text. The size line is omitted when the
// buyer did not pick one.
func receiptBody(st *state) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order, %s!\n\n", st.req.Name)
	fmt.Fprintf(&b, "Item: %s\n", st.item.Name)
	if st.ord.Size != order.SizeNotApplicable {
		fmt.Fprintf(&b, "Size: %s\n", st.ord.Size)
	}
	fmt.Fprintf(&b, "Price: $%s %s\n\n", st.item.Price.StringFixed(2), Currency)
	fmt.Fprintf(&b, "Shipping to:\n%s\n%s\n%s %s\n", st.req.Name, st.req.Address, st.req.CityState, st.req.Zip)
	return b.String()
}

func failure(message string, class FailureClass) *Outcome {
	return &Outcome{Status: StatusFailed, Message: message, Class: class}
}
