// Package stripe adapts the uniform processor contract onto the Stripe API
// via the official client. Every operation is a single vendor call except
// card creation, which tokenizes raw card data before attaching it; Stripe
// enforces request shapes itself, so no local validation happens here.
package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"

	"github.com/ghostpay/ghostpay/processor"
)

// metadataExternalIDKey records the merchant-supplied identifier on Stripe
// customers.
const metadataExternalIDKey = "external_id"

// errorCodes are the decline/validation codes callers may treat as
// user-correctable.
var errorCodes = []stripe.ErrorCode{
	stripe.ErrorCodeInvalidNumber,
	stripe.ErrorCodeInvalidExpiryMonth,
	stripe.ErrorCodeInvalidExpiryYear,
	stripe.ErrorCodeInvalidCVC,
	stripe.ErrorCodeIncorrectNumber,
	stripe.ErrorCodeExpiredCard,
	stripe.ErrorCodeIncorrectCVC,
	stripe.ErrorCodeIncorrectZip,
	stripe.ErrorCodeCardDeclined,
	stripe.ErrorCodeMissing,
	stripe.ErrorCodeProcessingError,
}

// Adapter implements processor.Processor for Stripe. RefundTransaction is the
// one operation the integration never carried; it falls through to
// processor.Unimplemented.
type Adapter struct {
	processor.Unimplemented

	api    *client.API
	logger *zap.Logger
}

// New creates a Stripe adapter with the default backends.
func New(secretKey string, logger *zap.Logger) *Adapter {
	return NewWithBackends(secretKey, nil, logger)
}

// NewWithBackends creates a Stripe adapter over custom backends; tests use it
// to run against a stub backend.
func NewWithBackends(secretKey string, backends *stripe.Backends, logger *zap.Logger) *Adapter {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &Adapter{
		api:    api,
		logger: logger,
	}
}

// Name returns the processor identifier.
func (a *Adapter) Name() string {
	return string(processor.TypeStripe)
}

// IsValidErrorCode reports whether code is in the fixed allow-list of known
// decline/validation codes.
func (a *Adapter) IsValidErrorCode(code string) bool {
	for _, c := range errorCodes {
		if string(c) == code {
			return true
		}
	}
	return false
}

// CreateCustomer registers a Stripe customer.
func (a *Adapter) CreateCustomer(ctx context.Context, req processor.CreateCustomerRequest) (*processor.Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	if req.Email != "" {
		params.Email = stripe.String(req.Email)
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.ExternalID != "" {
		params.AddMetadata(metadataExternalIDKey, req.ExternalID)
	}

	cus, err := a.api.Customers.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to create customer: %w", err)
	}

	a.logger.Debug("stripe: customer created", zap.String("customer_id", cus.ID))
	return customerFromStripe(cus), nil
}

// GetCustomer fetches a Stripe customer.
func (a *Adapter) GetCustomer(ctx context.Context, req processor.GetCustomerRequest) (*processor.Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	cus, err := a.api.Customers.Get(req.CustomerID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to get customer: %w", err)
	}
	return customerFromStripe(cus), nil
}

// UpdateCustomer updates email and description on an existing customer.
func (a *Adapter) UpdateCustomer(ctx context.Context, req processor.UpdateCustomerRequest) (*processor.Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	if req.Email != "" {
		params.Email = stripe.String(req.Email)
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}

	cus, err := a.api.Customers.Update(req.CustomerID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to update customer: %w", err)
	}
	return customerFromStripe(cus), nil
}

// DeleteCustomer removes a Stripe customer.
func (a *Adapter) DeleteCustomer(ctx context.Context, req processor.DeleteCustomerRequest) error {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	if _, err := a.api.Customers.Del(req.CustomerID, params); err != nil {
		return fmt.Errorf("stripe: failed to delete customer: %w", err)
	}
	return nil
}

// CreateCard is a two-step protocol: tokenize the raw card data, then attach
// the token as a source to the customer. A token failure means nothing was
// persisted, so the attach step is simply never attempted.
func (a *Adapter) CreateCard(ctx context.Context, req processor.CreateCardRequest) (*processor.Card, error) {
	tokenParams := &stripe.TokenParams{
		Card: &stripe.CardParams{
			Number:   stripe.String(req.Card.Number),
			ExpMonth: stripe.String(req.Card.ExpMonth),
			ExpYear:  stripe.String(req.Card.ExpYear),
			CVC:      stripe.String(req.Card.CVC),
		},
	}
	tokenParams.Context = ctx

	token, err := a.api.Tokens.New(tokenParams)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to tokenize card: %w", err)
	}

	cardParams := &stripe.CardParams{
		Customer: stripe.String(req.CustomerID),
		Token:    stripe.String(token.ID),
	}
	cardParams.Context = ctx

	card, err := a.api.Cards.New(cardParams)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to attach card: %w", err)
	}

	a.logger.Debug("stripe: card created",
		zap.String("customer_id", req.CustomerID),
		zap.String("card_id", card.ID))

	return cardFromStripe(req.CustomerID, card), nil
}

// GetCard fetches one of a customer's cards.
func (a *Adapter) GetCard(ctx context.Context, req processor.GetCardRequest) (*processor.Card, error) {
	params := &stripe.CardParams{Customer: stripe.String(req.CustomerID)}
	params.Context = ctx

	card, err := a.api.Cards.Get(req.CardID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to get card: %w", err)
	}
	return cardFromStripe(req.CustomerID, card), nil
}

// GetCards lists a customer's cards.
func (a *Adapter) GetCards(ctx context.Context, req processor.GetCardsRequest) ([]processor.Card, error) {
	params := &stripe.CardListParams{Customer: stripe.String(req.CustomerID)}
	params.Context = ctx

	var cards []processor.Card
	iter := a.api.Cards.List(params)
	for iter.Next() {
		cards = append(cards, *cardFromStripe(req.CustomerID, iter.Card()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("stripe: failed to list cards: %w", err)
	}
	return cards, nil
}

// DeleteCard detaches a card from a customer.
func (a *Adapter) DeleteCard(ctx context.Context, req processor.DeleteCardRequest) error {
	params := &stripe.CardParams{Customer: stripe.String(req.CustomerID)}
	params.Context = ctx

	if _, err := a.api.Cards.Del(req.CardID, params); err != nil {
		return fmt.Errorf("stripe: failed to delete card: %w", err)
	}
	return nil
}

// SetDefaultCard marks a stored card as the customer's default source.
func (a *Adapter) SetDefaultCard(ctx context.Context, req processor.SetDefaultCardRequest) (*processor.Customer, error) {
	params := &stripe.CustomerParams{DefaultSource: stripe.String(req.CardID)}
	params.Context = ctx

	cus, err := a.api.Customers.Update(req.CustomerID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to set default card: %w", err)
	}
	return customerFromStripe(cus), nil
}

// CreateCharge charges a customer, optionally against a specific source.
// Stripe takes amounts in integer minor units directly.
func (a *Adapter) CreateCharge(ctx context.Context, req processor.CreateChargeRequest) (*processor.Charge, error) {
	params := &stripe.ChargeParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
	}
	params.Context = ctx
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	source := req.Source
	if source == "" {
		source = req.CardID
	}
	if source != "" {
		if err := params.SetSource(source); err != nil {
			return nil, fmt.Errorf("stripe: invalid charge source: %w", err)
		}
	}

	charge, err := a.api.Charges.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to create charge: %w", err)
	}

	a.logger.Debug("stripe: charge created",
		zap.String("charge_id", charge.ID),
		zap.Int64("amount", charge.Amount))

	return chargeFromStripe(charge), nil
}

// CreatePlan creates a recurring billing plan.
func (a *Adapter) CreatePlan(ctx context.Context, req processor.CreatePlanRequest) (*processor.Plan, error) {
	params := &stripe.PlanParams{
		ID:       stripe.String(req.ID),
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		Interval: stripe.String(req.Interval),
		Nickname: stripe.String(req.Name),
		Product:  &stripe.PlanProductParams{Name: stripe.String(req.Name)},
	}
	params.Context = ctx
	if req.TrialPeriodDays > 0 {
		params.TrialPeriodDays = stripe.Int64(req.TrialPeriodDays)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	plan, err := a.api.Plans.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to create plan: %w", err)
	}
	return planFromStripe(plan), nil
}

// GetPlan fetches a plan by id.
func (a *Adapter) GetPlan(ctx context.Context, req processor.GetPlanRequest) (*processor.Plan, error) {
	params := &stripe.PlanParams{}
	params.Context = ctx

	plan, err := a.api.Plans.Get(req.PlanID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to get plan: %w", err)
	}
	return planFromStripe(plan), nil
}

// UpdatePlan renames a plan; metadata is sent only when a description is
// present.
func (a *Adapter) UpdatePlan(ctx context.Context, req processor.UpdatePlanRequest) (*processor.Plan, error) {
	params := &stripe.PlanParams{Nickname: stripe.String(req.Name)}
	params.Context = ctx
	if desc, ok := req.Metadata["description"]; ok && desc != "" {
		for k, v := range req.Metadata {
			params.AddMetadata(k, v)
		}
	}

	plan, err := a.api.Plans.Update(req.PlanID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to update plan: %w", err)
	}
	return planFromStripe(plan), nil
}

// FetchPlans lists plans, newest first per Stripe's default ordering.
func (a *Adapter) FetchPlans(ctx context.Context, req processor.FetchPlansRequest) ([]processor.Plan, error) {
	params := &stripe.PlanListParams{}
	params.Context = ctx
	if req.Limit > 0 {
		params.Limit = stripe.Int64(req.Limit)
	}

	var plans []processor.Plan
	iter := a.api.Plans.List(params)
	for iter.Next() {
		plans = append(plans, *planFromStripe(iter.Plan()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("stripe: failed to list plans: %w", err)
	}
	return plans, nil
}

// CreateSubscription attaches a customer to a plan.
func (a *Adapter) CreateSubscription(ctx context.Context, req processor.CreateSubscriptionRequest) (*processor.Subscription, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(req.CustomerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Plan: stripe.String(req.PlanID)},
		},
	}
	params.Context = ctx

	sub, err := a.api.Subscriptions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to create subscription: %w", err)
	}

	a.logger.Debug("stripe: subscription created",
		zap.String("subscription_id", sub.ID),
		zap.String("customer_id", req.CustomerID))

	return &processor.Subscription{
		ID:         sub.ID,
		CustomerID: req.CustomerID,
		PlanID:     req.PlanID,
		Status:     string(sub.Status),
	}, nil
}

func customerFromStripe(cus *stripe.Customer) *processor.Customer {
	customer := &processor.Customer{
		ID:          cus.ID,
		Email:       cus.Email,
		Description: cus.Description,
	}
	if cus.Metadata != nil {
		customer.ExternalID = cus.Metadata[metadataExternalIDKey]
	}
	if cus.DefaultSource != nil {
		customer.DefaultCardID = cus.DefaultSource.ID
	}
	return customer
}

func cardFromStripe(customerID string, card *stripe.Card) *processor.Card {
	return &processor.Card{
		ID:         card.ID,
		CustomerID: customerID,
		Last4:      card.Last4,
		Brand:      string(card.Brand),
		ExpMonth:   card.ExpMonth,
		ExpYear:    card.ExpYear,
	}
}

func chargeFromStripe(charge *stripe.Charge) *processor.Charge {
	normalized := &processor.Charge{
		ID:          charge.ID,
		Amount:      charge.Amount,
		Currency:    string(charge.Currency),
		Description: charge.Description,
		Status:      string(charge.Status),
	}
	if charge.Customer != nil {
		normalized.CustomerID = charge.Customer.ID
	}
	if charge.Source != nil {
		normalized.CardID = charge.Source.ID
	}
	return normalized
}

func planFromStripe(plan *stripe.Plan) *processor.Plan {
	return &processor.Plan{
		ID:              plan.ID,
		Amount:          plan.Amount,
		Currency:        string(plan.Currency),
		Interval:        string(plan.Interval),
		Name:            plan.Nickname,
		TrialPeriodDays: plan.TrialPeriodDays,
		Metadata:        plan.Metadata,
	}
}
