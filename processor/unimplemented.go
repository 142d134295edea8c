package processor

import "context"

// Unimplemented fails every operation with ErrNotImplemented. Concrete
// adapters embed it and override the operations their vendor supports, so the
// interface stays satisfied as it grows and unsupported operations fail the
// same way on every processor.
type Unimplemented struct{}

func (Unimplemented) IsValidErrorCode(code string) bool { return false }

func (Unimplemented) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) GetCustomer(ctx context.Context, req GetCustomerRequest) (*Customer, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) UpdateCustomer(ctx context.Context, req UpdateCustomerRequest) (*Customer, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) DeleteCustomer(ctx context.Context, req DeleteCustomerRequest) error {
	return ErrNotImplemented
}

func (Unimplemented) CreateCard(ctx context.Context, req CreateCardRequest) (*Card, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) GetCard(ctx context.Context, req GetCardRequest) (*Card, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) GetCards(ctx context.Context, req GetCardsRequest) ([]Card, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) DeleteCard(ctx context.Context, req DeleteCardRequest) error {
	return ErrNotImplemented
}

func (Unimplemented) SetDefaultCard(ctx context.Context, req SetDefaultCardRequest) (*Customer, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) CreateCharge(ctx context.Context, req CreateChargeRequest) (*Charge, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) RefundTransaction(ctx context.Context, req RefundRequest) (*Refund, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) GetPlan(ctx context.Context, req GetPlanRequest) (*Plan, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) UpdatePlan(ctx context.Context, req UpdatePlanRequest) (*Plan, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) FetchPlans(ctx context.Context, req FetchPlansRequest) ([]Plan, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*Subscription, error) {
	return nil, ErrNotImplemented
}
