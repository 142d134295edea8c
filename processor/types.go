package processor

import "time"

// Customer is the normalized customer shape. ID is the processor-assigned
// profile identifier; ExternalID is the merchant-supplied identifier, when the
// processor records one.
type Customer struct {
	ID            string
	Email         string
	Description   string
	ExternalID    string
	DefaultCardID string
	// Cards is populated by adapters whose customer lookup embeds the stored
	// cards (Authorize.Net); otherwise nil.
	Cards []Card
}

// Card is a stored payment method scoped to exactly one customer.
type Card struct {
	ID         string
	CustomerID string
	Last4      string
	Brand      string
	ExpMonth   int64
	ExpYear    int64
	// CustomerType and BillingAddress are present on Authorize.Net payment
	// profiles only.
	CustomerType   string
	BillingAddress *BillingAddress
}

// BillingAddress accompanies Authorize.Net card creation. Country is fixed to
// "us"; non-US addresses are rejected before any vendor call.
type BillingAddress struct {
	FirstName string
	LastName  string
	Address   string
	City      string
	State     string
	Zip       string
	Country   string
}

// CardInput is raw card data submitted for card creation. Expiry fields are
// strings so adapters can enforce their own format rules before conversion.
type CardInput struct {
	Number   string
	ExpMonth string
	ExpYear  string
	CVC      string
}

// Charge is the normalized result of a completed charge. Amount is in integer
// minor currency units regardless of the processor's native convention.
type Charge struct {
	ID           string
	Amount       int64
	Currency     string
	CustomerID   string
	CardID       string
	Description  string
	Status       string
	AuthCode     string
	ResponseCode string
}

// Refund is the outcome of RefundTransaction. Voided is true when the adapter
// voided a still-unsettled transaction instead of issuing a credit.
type Refund struct {
	TransactionID string
	Voided        bool
}

// Plan is a recurring billing plan (Stripe only).
type Plan struct {
	ID              string
	Amount          int64
	Currency        string
	Interval        string
	Name            string
	TrialPeriodDays int64
	Metadata        map[string]string
}

// Subscription attaches a customer to a plan.
type Subscription struct {
	ID         string
	CustomerID string
	PlanID     string
	Status     string
}

type CreateCustomerRequest struct {
	Email       string
	Description string
	// ExternalID is the merchant-side identifier recorded with the processor
	// profile.
	ExternalID string
}

type GetCustomerRequest struct {
	CustomerID string
}

type UpdateCustomerRequest struct {
	CustomerID  string
	Email       string
	Description string
}

type DeleteCustomerRequest struct {
	CustomerID string
}

type CreateCardRequest struct {
	CustomerID string
	Card       CardInput
	// BillingAddress is required by the Authorize.Net adapter and ignored by
	// Stripe.
	BillingAddress BillingAddress
}

type GetCardRequest struct {
	CustomerID string
	CardID     string
}

type GetCardsRequest struct {
	CustomerID string
}

type DeleteCardRequest struct {
	CustomerID string
	CardID     string
}

type SetDefaultCardRequest struct {
	CustomerID string
	CardID     string
}

type CreateChargeRequest struct {
	// Amount in integer minor currency units (e.g. cents).
	Amount      int64
	Currency    string
	CustomerID  string
	Description string
	// Source and CardID both name the stored card to charge; Source wins when
	// both are set.
	Source string
	CardID string
}

type RefundRequest struct {
	TransactionID string
	// Amount in integer minor currency units.
	Amount int64
	// CreatedAt is when the original charge was made; it decides whether a
	// failed refund may fall back to a void.
	CreatedAt time.Time
}

type CreatePlanRequest struct {
	ID              string
	Amount          int64
	Currency        string
	Interval        string
	Name            string
	TrialPeriodDays int64
	Metadata        map[string]string
}

type GetPlanRequest struct {
	PlanID string
}

type UpdatePlanRequest struct {
	PlanID   string
	Name     string
	Metadata map[string]string
}

type FetchPlansRequest struct {
	Limit int64
}

type CreateSubscriptionRequest struct {
	CustomerID string
	PlanID     string
}
