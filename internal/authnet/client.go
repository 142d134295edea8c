// Package authnet is a thin client for the Authorize.Net CIM/AIM JSON API.
// It covers only the requests the Authorize.Net adapter issues; everything
// else about the vendor protocol (auth, rate limits, settlement) stays the
// vendor's concern.
package authnet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	productionEndpoint = "https://api.authorize.net/xml/v1/request.json"
	sandboxEndpoint    = "https://apitest.authorize.net/xml/v1/request.json"

	defaultTimeout = 30 * time.Second
)

// ErrProfileNotFound is returned when a profile lookup succeeds at the
// transport level but the response carries no profile.
var ErrProfileNotFound = errors.New("authnet: profile missing from response")

// Config carries the merchant credentials. Endpoint overrides the API URL and
// exists for tests.
type Config struct {
	APILoginID     string
	TransactionKey string
	Sandbox        bool
	Endpoint       string
}

// Client issues Authorize.Net JSON API requests. It holds no state besides
// its configuration, so concurrent use is safe.
type Client struct {
	cfg        Config
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the production or sandbox endpoint.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		if cfg.Sandbox {
			endpoint = sandboxEndpoint
		} else {
			endpoint = productionEndpoint
		}
	}

	return &Client{
		cfg:        cfg,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

func (c *Client) auth() merchantAuthentication {
	return merchantAuthentication{
		Name:           c.cfg.APILoginID,
		TransactionKey: c.cfg.TransactionKey,
	}
}

// post sends a wrapped request and decodes the response into out. The vendor
// prefixes response bodies with a UTF-8 BOM, which must be stripped before
// decoding.
func (c *Client) post(ctx context.Context, wrapper any, out any) error {
	body, err := json.Marshal(wrapper)
	if err != nil {
		return fmt.Errorf("authnet: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("authnet: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("authnet: request failed", zap.Error(err))
		return fmt.Errorf("authnet: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("authnet: failed to read response: %w", err)
	}
	respBody = bytes.TrimPrefix(respBody, []byte("\xef\xbb\xbf"))

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("authnet: unexpected status",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(respBody)))
		return fmt.Errorf("authnet: unexpected status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("authnet: failed to decode response: %w", err)
	}
	return nil
}

// envelopeError converts a non-Ok message envelope into an *Error.
func envelopeError(m messagesEnvelope) error {
	if m.ResultCode == resultCodeOK {
		return nil
	}
	e := &Error{Text: "unable to complete request"}
	if len(m.Message) > 0 {
		e.Code = m.Message[0].Code
		e.Text = m.Message[0].Text
	}
	return e
}

// CreateCustomerProfile registers a customer profile and returns its assigned
// identifiers.
func (c *Client) CreateCustomerProfile(ctx context.Context, profile Profile) (*CreateCustomerProfileResult, error) {
	wrapper := createCustomerProfileWrapper{
		CreateCustomerProfileRequest: createCustomerProfileRequest{
			MerchantAuthentication: c.auth(),
			Profile:                profile,
		},
	}

	var resp createCustomerProfileResponse
	if err := c.post(ctx, wrapper, &resp); err != nil {
		return nil, err
	}
	if err := envelopeError(resp.Messages); err != nil {
		return nil, err
	}

	c.logger.Debug("authnet: customer profile created",
		zap.String("customer_profile_id", resp.CustomerProfileID))

	return &CreateCustomerProfileResult{
		CustomerProfileID: resp.CustomerProfileID,
		PaymentProfileIDs: resp.CustomerPaymentProfileIDList,
	}, nil
}

// GetCustomerProfile fetches a customer profile with its payment profiles.
func (c *Client) GetCustomerProfile(ctx context.Context, customerProfileID string) (*CustomerProfile, error) {
	wrapper := getCustomerProfileWrapper{
		GetCustomerProfileRequest: getCustomerProfileRequest{
			MerchantAuthentication: c.auth(),
			CustomerProfileID:      customerProfileID,
		},
	}

	var resp getCustomerProfileResponse
	if err := c.post(ctx, wrapper, &resp); err != nil {
		return nil, err
	}
	if err := envelopeError(resp.Messages); err != nil {
		return nil, err
	}
	if resp.Profile == nil {
		return nil, ErrProfileNotFound
	}
	return resp.Profile, nil
}

// CreateCustomerPaymentProfile attaches a payment profile to an existing
// customer profile and returns the assigned payment profile id.
func (c *Client) CreateCustomerPaymentProfile(ctx context.Context, customerProfileID string, paymentProfile PaymentProfile) (string, error) {
	wrapper := createCustomerPaymentProfileWrapper{
		CreateCustomerPaymentProfileRequest: createCustomerPaymentProfileRequest{
			MerchantAuthentication: c.auth(),
			CustomerProfileID:      customerProfileID,
			PaymentProfile:         paymentProfile,
		},
	}

	var resp createCustomerPaymentProfileResponse
	if err := c.post(ctx, wrapper, &resp); err != nil {
		return "", err
	}
	if err := envelopeError(resp.Messages); err != nil {
		return "", err
	}

	c.logger.Debug("authnet: payment profile created",
		zap.String("customer_profile_id", customerProfileID),
		zap.String("payment_profile_id", resp.CustomerPaymentProfileID))

	return resp.CustomerPaymentProfileID, nil
}

// GetCustomerPaymentProfile fetches a single stored payment profile.
func (c *Client) GetCustomerPaymentProfile(ctx context.Context, customerProfileID, paymentProfileID string) (*PaymentProfile, error) {
	wrapper := getCustomerPaymentProfileWrapper{
		GetCustomerPaymentProfileRequest: getCustomerPaymentProfileRequest{
			MerchantAuthentication:   c.auth(),
			CustomerProfileID:        customerProfileID,
			CustomerPaymentProfileID: paymentProfileID,
		},
	}

	var resp getCustomerPaymentProfileResponse
	if err := c.post(ctx, wrapper, &resp); err != nil {
		return nil, err
	}
	if err := envelopeError(resp.Messages); err != nil {
		return nil, err
	}
	if resp.PaymentProfile == nil {
		return nil, ErrProfileNotFound
	}
	return resp.PaymentProfile, nil
}

// DeleteCustomerPaymentProfile removes a stored payment profile.
func (c *Client) DeleteCustomerPaymentProfile(ctx context.Context, customerProfileID, paymentProfileID string) error {
	wrapper := deleteCustomerPaymentProfileWrapper{
		DeleteCustomerPaymentProfileRequest: deleteCustomerPaymentProfileRequest{
			MerchantAuthentication:   c.auth(),
			CustomerProfileID:        customerProfileID,
			CustomerPaymentProfileID: paymentProfileID,
		},
	}

	var resp deleteCustomerPaymentProfileResponse
	if err := c.post(ctx, wrapper, &resp); err != nil {
		return err
	}
	return envelopeError(resp.Messages)
}

// CreateTransaction submits a charge, refund or void. When the API reports a
// transaction-level failure the response is returned alongside a nil error so
// the caller can inspect the Errors entries; an *Error is returned only when
// there is no transaction response to inspect.
func (c *Client) CreateTransaction(ctx context.Context, tx Transaction) (*TransactionResponse, error) {
	// A payment profile only exists inside a customer profile; the API cannot
	// address one without the other.
	if tx.PaymentProfileID != "" && tx.CustomerProfileID == "" {
		return nil, fmt.Errorf("authnet: payment profile %q given without a customer profile", tx.PaymentProfileID)
	}

	reqType := transactionRequestType{
		TransactionType: tx.Type,
		Amount:          tx.Amount,
		RefTransID:      tx.RefTransID,
	}
	if tx.CustomerProfileID != "" {
		reqType.Profile = &transactionProfile{
			CustomerProfileID: tx.CustomerProfileID,
		}
		if tx.PaymentProfileID != "" {
			reqType.Profile.PaymentProfile = &transactionPaymentProfile{
				PaymentProfileID: tx.PaymentProfileID,
			}
		}
	}

	wrapper := createTransactionWrapper{
		CreateTransactionRequest: createTransactionRequest{
			MerchantAuthentication: c.auth(),
			// refId is capped at 20 characters by the vendor.
			RefID:              uuid.NewString()[:20],
			TransactionRequest: reqType,
		},
	}

	var resp createTransactionResponse
	if err := c.post(ctx, wrapper, &resp); err != nil {
		return nil, err
	}

	if resp.TransactionResponse == nil {
		if err := envelopeError(resp.Messages); err != nil {
			return nil, err
		}
		return nil, &Error{Text: "unable to complete request"}
	}

	c.logger.Debug("authnet: transaction submitted",
		zap.String("transaction_type", tx.Type),
		zap.String("trans_id", resp.TransactionResponse.TransID),
		zap.Int("error_count", len(resp.TransactionResponse.Errors)))

	return resp.TransactionResponse, nil
}
