// Package authorizenet adapts the uniform processor contract onto the
// Authorize.Net CIM/AIM API. It carries the only non-trivial logic in the
// facade: local schema validation ahead of vendor calls, list-vs-singleton
// payment profile normalization, charge error flattening, cents-to-decimal
// amount conversion, and the refund-to-void settlement fallback.
package authorizenet

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ghostpay/ghostpay/internal/authnet"
	"github.com/ghostpay/ghostpay/processor"
)

const (
	// customerType recorded on every payment profile we create.
	customerType = "business"

	// chargeErrorFallback is used when the vendor error envelope carries no
	// usable text.
	chargeErrorFallback = "Unable to complete transaction."

	// refundCriteriaText is the vendor rejection for refunds of unsettled
	// transactions; inside the settlement window the charge can still be
	// voided instead.
	refundCriteriaText = "does not meet the criteria for issuing a credit"

	// settlementWindow is how long a transaction may remain unsettled and
	// therefore voidable.
	settlementWindow = 48 * time.Hour
)

// Adapter-local failures with caller-facing messages.
var (
	ErrMissingCustomerID = &processor.Error{Code: "MISSING_CUSTOMER_ID", Message: "Missing customer Id."}
	ErrCustomerNotFound  = &processor.Error{Code: "CUSTOMER_NOT_FOUND", Message: "Unable to find customer."}
)

// Client is the slice of the Authorize.Net API the adapter consumes.
// *authnet.Client satisfies it.
type Client interface {
	CreateCustomerProfile(ctx context.Context, profile authnet.Profile) (*authnet.CreateCustomerProfileResult, error)
	GetCustomerProfile(ctx context.Context, customerProfileID string) (*authnet.CustomerProfile, error)
	CreateCustomerPaymentProfile(ctx context.Context, customerProfileID string, paymentProfile authnet.PaymentProfile) (string, error)
	GetCustomerPaymentProfile(ctx context.Context, customerProfileID, paymentProfileID string) (*authnet.PaymentProfile, error)
	DeleteCustomerPaymentProfile(ctx context.Context, customerProfileID, paymentProfileID string) error
	CreateTransaction(ctx context.Context, tx authnet.Transaction) (*authnet.TransactionResponse, error)
}

// Adapter implements processor.Processor for Authorize.Net. Operations the
// vendor integration never supported (plans, subscriptions, customer
// mutation) fall through to processor.Unimplemented.
type Adapter struct {
	processor.Unimplemented

	client   Client
	validate *validator.Validate
	logger   *zap.Logger
}

// New creates an Authorize.Net adapter over the given client.
func New(client Client, logger *zap.Logger) *Adapter {
	return &Adapter{
		client:   client,
		validate: newValidator(),
		logger:   logger,
	}
}

// Name returns the processor identifier.
func (a *Adapter) Name() string {
	return string(processor.TypeAuthorizeNet)
}

// CreateCustomer registers a customer profile and re-reads it so the caller
// gets the normalized shape, payment profiles included.
func (a *Adapter) CreateCustomer(ctx context.Context, req processor.CreateCustomerRequest) (*processor.Customer, error) {
	profile := authnet.Profile{
		MerchantCustomerID: req.ExternalID,
		Description:        "Id: " + req.ExternalID,
		Email:              req.Email,
	}

	result, err := a.client.CreateCustomerProfile(ctx, profile)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("authorizenet: customer created",
		zap.String("customer_id", result.CustomerProfileID))

	return a.GetCustomer(ctx, processor.GetCustomerRequest{CustomerID: result.CustomerProfileID})
}

// GetCustomer fetches a customer profile. A vendor response without a profile
// is reported as ErrCustomerNotFound regardless of its other content.
func (a *Adapter) GetCustomer(ctx context.Context, req processor.GetCustomerRequest) (*processor.Customer, error) {
	if req.CustomerID == "" {
		return nil, ErrMissingCustomerID
	}

	profile, err := a.client.GetCustomerProfile(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, authnet.ErrProfileNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	return customerFromProfile(profile), nil
}

// CreateCard validates the billing address and card locally, submits the
// payment profile, then re-reads the stored card. Validation failures abort
// before any vendor call.
func (a *Adapter) CreateCard(ctx context.Context, req processor.CreateCardRequest) (*processor.Card, error) {
	if req.CustomerID == "" {
		return nil, ErrMissingCustomerID
	}

	billTo, err := a.validateBillingAddress(req.BillingAddress)
	if err != nil {
		return nil, err
	}
	card, err := a.validateCard(req.Card)
	if err != nil {
		return nil, err
	}

	paymentProfile := authnet.PaymentProfile{
		CustomerType: customerType,
		BillTo:       billTo,
		Payment:      &authnet.Payment{CreditCard: card},
	}

	paymentProfileID, err := a.client.CreateCustomerPaymentProfile(ctx, req.CustomerID, paymentProfile)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("authorizenet: card created",
		zap.String("customer_id", req.CustomerID),
		zap.String("card_id", paymentProfileID))

	return a.GetCard(ctx, processor.GetCardRequest{CustomerID: req.CustomerID, CardID: paymentProfileID})
}

// GetCard fetches one stored payment profile.
func (a *Adapter) GetCard(ctx context.Context, req processor.GetCardRequest) (*processor.Card, error) {
	profile, err := a.client.GetCustomerPaymentProfile(ctx, req.CustomerID, req.CardID)
	if err != nil {
		return nil, err
	}
	card := cardFromPaymentProfile(req.CustomerID, *profile)
	return &card, nil
}

// GetCards lists a customer's stored cards. The vendor returns a single
// object for one-card customers and an array otherwise; the wire type
// normalizes both to a slice.
func (a *Adapter) GetCards(ctx context.Context, req processor.GetCardsRequest) ([]processor.Card, error) {
	customer, err := a.GetCustomer(ctx, processor.GetCustomerRequest{CustomerID: req.CustomerID})
	if err != nil {
		return nil, err
	}
	return customer.Cards, nil
}

// DeleteCard removes a stored payment profile.
func (a *Adapter) DeleteCard(ctx context.Context, req processor.DeleteCardRequest) error {
	return a.client.DeleteCustomerPaymentProfile(ctx, req.CustomerID, req.CardID)
}

// CreateCharge charges a stored card. The caller supplies integer cents; the
// vendor expects a two-decimal string, so 10000 goes on the wire as "100.00".
func (a *Adapter) CreateCharge(ctx context.Context, req processor.CreateChargeRequest) (*processor.Charge, error) {
	source := req.Source
	if source == "" {
		source = req.CardID
	}

	resp, err := a.submitTransaction(ctx, authnet.Transaction{
		Type:              authnet.TransactionTypeAuthCapture,
		Amount:            formatAmount(req.Amount),
		CustomerProfileID: req.CustomerID,
		PaymentProfileID:  source,
	})
	if err != nil {
		return nil, err
	}

	return &processor.Charge{
		ID:           resp.TransID,
		Amount:       req.Amount,
		Currency:     req.Currency,
		CustomerID:   req.CustomerID,
		CardID:       source,
		Description:  req.Description,
		AuthCode:     resp.AuthCode,
		ResponseCode: resp.ResponseCode,
	}, nil
}

// RefundTransaction issues a credit for a settled transaction. When the
// vendor rejects the refund because the transaction has not settled and the
// charge is still inside the settlement window, the transaction is voided
// instead. Any other refund failure is surfaced unchanged.
func (a *Adapter) RefundTransaction(ctx context.Context, req processor.RefundRequest) (*processor.Refund, error) {
	resp, err := a.submitTransaction(ctx, authnet.Transaction{
		Type:       authnet.TransactionTypeRefund,
		Amount:     formatAmount(req.Amount),
		RefTransID: req.TransactionID,
	})
	if err == nil {
		return &processor.Refund{TransactionID: resp.TransID}, nil
	}

	if !strings.Contains(err.Error(), refundCriteriaText) {
		return nil, err
	}
	if time.Since(req.CreatedAt) >= settlementWindow {
		return nil, err
	}

	a.logger.Debug("authorizenet: refund rejected for unsettled transaction, voiding",
		zap.String("transaction_id", req.TransactionID))

	voided, voidErr := a.submitTransaction(ctx, authnet.Transaction{
		Type:       authnet.TransactionTypeVoid,
		RefTransID: req.TransactionID,
	})
	if voidErr != nil {
		return nil, voidErr
	}
	return &processor.Refund{TransactionID: voided.TransID, Voided: true}, nil
}

// submitTransaction runs one createTransaction call and converts
// transaction-level error entries into a flat error.
func (a *Adapter) submitTransaction(ctx context.Context, tx authnet.Transaction) (*authnet.TransactionResponse, error) {
	resp, err := a.client.CreateTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, &processor.Error{Code: "TRANSACTION_FAILED", Message: buildChargeError(resp.Errors)}
	}
	return resp, nil
}

// buildChargeError flattens the vendor's nested error entries to the first
// error's text, falling back to a fixed message when the envelope is empty or
// malformed.
func buildChargeError(errs []authnet.TransactionError) string {
	if len(errs) == 0 || errs[0].ErrorText == "" {
		return chargeErrorFallback
	}
	return errs[0].ErrorText
}

// formatAmount converts integer cents to the vendor's decimal string form.
func formatAmount(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

func customerFromProfile(p *authnet.CustomerProfile) *processor.Customer {
	return &processor.Customer{
		ID:          p.CustomerProfileID,
		Email:       p.Email,
		Description: p.Description,
		ExternalID:  p.MerchantCustomerID,
		Cards:       cardsFromProfiles(p.CustomerProfileID, p.PaymentProfiles),
	}
}

func cardsFromProfiles(customerID string, profiles authnet.PaymentProfileList) []processor.Card {
	if len(profiles) == 0 {
		return nil
	}
	cards := make([]processor.Card, 0, len(profiles))
	for _, pp := range profiles {
		cards = append(cards, cardFromPaymentProfile(customerID, pp))
	}
	return cards
}

// cardFromPaymentProfile normalizes a vendor payment profile. Card numbers
// come back masked; only the last four digits are kept.
func cardFromPaymentProfile(customerID string, pp authnet.PaymentProfile) processor.Card {
	card := processor.Card{
		ID:           pp.CustomerPaymentProfileID,
		CustomerID:   customerID,
		CustomerType: pp.CustomerType,
	}
	if pp.Payment != nil && pp.Payment.CreditCard != nil {
		card.Last4 = last4(pp.Payment.CreditCard.CardNumber)
		card.Brand = pp.Payment.CreditCard.CardType
	}
	if pp.BillTo != nil {
		card.BillingAddress = &processor.BillingAddress{
			FirstName: pp.BillTo.FirstName,
			LastName:  pp.BillTo.LastName,
			Address:   pp.BillTo.Address,
			City:      pp.BillTo.City,
			State:     pp.BillTo.State,
			Zip:       pp.BillTo.Zip,
			Country:   pp.BillTo.Country,
		}
	}
	return card
}

func last4(masked string) string {
	if len(masked) <= 4 {
		return masked
	}
	return masked[len(masked)-4:]
}
