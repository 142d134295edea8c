// Package processor defines the uniform contract every payment processor
// adapter satisfies, together with the normalized value objects exchanged
// across it. Vendor-specific response shapes never leak past an adapter;
// callers only ever see the types declared here.
package processor

import "context"

// Type identifies a supported payment processor.
type Type string

const (
	TypeStripe       Type = "stripe"
	TypeAuthorizeNet Type = "authorizeNet"
)

// Processor is the operation set shared by all payment processors. Adapters
// that do not support an operation return ErrNotImplemented for it, so a
// caller switching processors gets a consistent failure instead of a missing
// method.
type Processor interface {
	// Name returns the processor identifier ("stripe", "authorizeNet").
	Name() string

	// IsValidErrorCode reports whether code is a known user-correctable
	// decline/validation code for this processor, as opposed to a systemic
	// failure.
	IsValidErrorCode(code string) bool

	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error)
	GetCustomer(ctx context.Context, req GetCustomerRequest) (*Customer, error)
	UpdateCustomer(ctx context.Context, req UpdateCustomerRequest) (*Customer, error)
	DeleteCustomer(ctx context.Context, req DeleteCustomerRequest) error

	// CreateCard stores a new card against an existing customer. The customer
	// identifier must already be resolved; adapters reject requests without one.
	CreateCard(ctx context.Context, req CreateCardRequest) (*Card, error)
	GetCard(ctx context.Context, req GetCardRequest) (*Card, error)
	GetCards(ctx context.Context, req GetCardsRequest) ([]Card, error)
	DeleteCard(ctx context.Context, req DeleteCardRequest) error
	SetDefaultCard(ctx context.Context, req SetDefaultCardRequest) (*Customer, error)

	// CreateCharge charges a stored card. Amount is always supplied in integer
	// minor currency units (cents); adapters own any unit conversion their
	// vendor requires.
	CreateCharge(ctx context.Context, req CreateChargeRequest) (*Charge, error)

	// RefundTransaction reverses a previous charge. Adapters may substitute a
	// void when the transaction has not yet settled.
	RefundTransaction(ctx context.Context, req RefundRequest) (*Refund, error)

	CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error)
	GetPlan(ctx context.Context, req GetPlanRequest) (*Plan, error)
	UpdatePlan(ctx context.Context, req UpdatePlanRequest) (*Plan, error)
	FetchPlans(ctx context.Context, req FetchPlansRequest) ([]Plan, error)
	CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*Subscription, error)
}
