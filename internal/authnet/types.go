package authnet

import (
	"bytes"
	"encoding/json"
)

type merchantAuthentication struct {
	Name           string `json:"name"`
	TransactionKey string `json:"transactionKey"`
}

// Message is a single entry of the response message envelope.
type Message struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

type messagesEnvelope struct {
	ResultCode string    `json:"resultCode"`
	Message    []Message `json:"message"`
}

const resultCodeOK = "Ok"

// Error is a failure reported by the Authorize.Net API itself (resultCode
// "Error"), as opposed to a transport failure.
type Error struct {
	Code string
	Text string
}

func (e *Error) Error() string {
	return e.Text
}

// Profile is the customer profile payload for createCustomerProfileRequest.
type Profile struct {
	MerchantCustomerID string `json:"merchantCustomerId,omitempty"`
	Description        string `json:"description,omitempty"`
	Email              string `json:"email,omitempty"`
}

// BillTo is a payment profile billing address.
type BillTo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
}

// CreditCard carries card data on the wire. ExpirationDate uses the vendor's
// "YYYY-MM" format. Responses return CardNumber masked to the last four
// digits (e.g. "XXXX4242").
type CreditCard struct {
	CardNumber     string `json:"cardNumber"`
	ExpirationDate string `json:"expirationDate"`
	CardCode       string `json:"cardCode,omitempty"`
	CardType       string `json:"cardType,omitempty"`
}

type Payment struct {
	CreditCard *CreditCard `json:"creditCard,omitempty"`
}

// PaymentProfile is a stored card attached to a customer profile.
type PaymentProfile struct {
	CustomerType             string   `json:"customerType,omitempty"`
	CustomerPaymentProfileID string   `json:"customerPaymentProfileId,omitempty"`
	BillTo                   *BillTo  `json:"billTo,omitempty"`
	Payment                  *Payment `json:"payment,omitempty"`
}

// PaymentProfileList absorbs the vendor's habit of returning paymentProfiles
// as a single object for one-card customers and as an array otherwise, so
// callers always see a slice.
type PaymentProfileList []PaymentProfile

func (l *PaymentProfileList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if trimmed[0] == '[' {
		var list []PaymentProfile
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*l = list
		return nil
	}
	var single PaymentProfile
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return err
	}
	*l = PaymentProfileList{single}
	return nil
}

// CustomerProfile is the vendor's stored customer record.
type CustomerProfile struct {
	CustomerProfileID  string             `json:"customerProfileId"`
	MerchantCustomerID string             `json:"merchantCustomerId"`
	Description        string             `json:"description"`
	Email              string             `json:"email"`
	PaymentProfiles    PaymentProfileList `json:"paymentProfiles"`
}

// Transaction types accepted by createTransactionRequest.
const (
	TransactionTypeAuthCapture = "authCaptureTransaction"
	TransactionTypeRefund      = "refundTransaction"
	TransactionTypeVoid        = "voidTransaction"
)

// Transaction describes a createTransactionRequest against a stored payment
// profile. Amount is the vendor's decimal string form ("100.00"); RefTransID
// names the original transaction for refunds and voids.
type Transaction struct {
	Type              string
	Amount            string
	CustomerProfileID string
	PaymentProfileID  string
	RefTransID        string
}

// TransactionMessage is a per-transaction status message.
type TransactionMessage struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// TransactionError is a per-transaction failure entry.
type TransactionError struct {
	ErrorCode string `json:"errorCode"`
	ErrorText string `json:"errorText"`
}

// TransactionResponse is the inner result of a createTransactionRequest.
type TransactionResponse struct {
	ResponseCode  string               `json:"responseCode"`
	AuthCode      string               `json:"authCode"`
	AVSResultCode string               `json:"avsResultCode"`
	CVVResultCode string               `json:"cvvResultCode"`
	TransID       string               `json:"transId"`
	RefTransID    string               `json:"refTransID"`
	AccountNumber string               `json:"accountNumber"`
	AccountType   string               `json:"accountType"`
	Messages      []TransactionMessage `json:"messages"`
	Errors        []TransactionError   `json:"errors"`
}

// Request wrappers. The vendor API keys every request body by its request
// name and rejects unknown envelopes.

type createCustomerProfileRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
	Profile                Profile                `json:"profile"`
}

type createCustomerProfileWrapper struct {
	CreateCustomerProfileRequest createCustomerProfileRequest `json:"createCustomerProfileRequest"`
}

type createCustomerProfileResponse struct {
	CustomerProfileID            string           `json:"customerProfileId"`
	CustomerPaymentProfileIDList []string         `json:"customerPaymentProfileIdList"`
	Messages                     messagesEnvelope `json:"messages"`
}

// CreateCustomerProfileResult reports the identifiers assigned by the vendor.
type CreateCustomerProfileResult struct {
	CustomerProfileID string
	PaymentProfileIDs []string
}

type getCustomerProfileRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
	CustomerProfileID      string                 `json:"customerProfileId"`
}

type getCustomerProfileWrapper struct {
	GetCustomerProfileRequest getCustomerProfileRequest `json:"getCustomerProfileRequest"`
}

type getCustomerProfileResponse struct {
	Profile  *CustomerProfile `json:"profile"`
	Messages messagesEnvelope `json:"messages"`
}

type createCustomerPaymentProfileRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
	CustomerProfileID      string                 `json:"customerProfileId"`
	PaymentProfile         PaymentProfile         `json:"paymentProfile"`
}

type createCustomerPaymentProfileWrapper struct {
	CreateCustomerPaymentProfileRequest createCustomerPaymentProfileRequest `json:"createCustomerPaymentProfileRequest"`
}

type createCustomerPaymentProfileResponse struct {
	CustomerPaymentProfileID string           `json:"customerPaymentProfileId"`
	Messages                 messagesEnvelope `json:"messages"`
}

type getCustomerPaymentProfileRequest struct {
	MerchantAuthentication   merchantAuthentication `json:"merchantAuthentication"`
	CustomerProfileID        string                 `json:"customerProfileId"`
	CustomerPaymentProfileID string                 `json:"customerPaymentProfileId"`
}

type getCustomerPaymentProfileWrapper struct {
	GetCustomerPaymentProfileRequest getCustomerPaymentProfileRequest `json:"getCustomerPaymentProfileRequest"`
}

type getCustomerPaymentProfileResponse struct {
	PaymentProfile *PaymentProfile  `json:"paymentProfile"`
	Messages       messagesEnvelope `json:"messages"`
}

type deleteCustomerPaymentProfileRequest struct {
	MerchantAuthentication   merchantAuthentication `json:"merchantAuthentication"`
	CustomerProfileID        string                 `json:"customerProfileId"`
	CustomerPaymentProfileID string                 `json:"customerPaymentProfileId"`
}

type deleteCustomerPaymentProfileWrapper struct {
	DeleteCustomerPaymentProfileRequest deleteCustomerPaymentProfileRequest `json:"deleteCustomerPaymentProfileRequest"`
}

type deleteCustomerPaymentProfileResponse struct {
	Messages messagesEnvelope `json:"messages"`
}

type transactionPaymentProfile struct {
	PaymentProfileID string `json:"paymentProfileId"`
}

type transactionProfile struct {
	CustomerProfileID string                     `json:"customerProfileId"`
	PaymentProfile    *transactionPaymentProfile `json:"paymentProfile,omitempty"`
}

type transactionRequestType struct {
	TransactionType string              `json:"transactionType"`
	Amount          string              `json:"amount,omitempty"`
	Profile         *transactionProfile `json:"profile,omitempty"`
	RefTransID      string              `json:"refTransId,omitempty"`
}

type createTransactionRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
	RefID                  string                 `json:"refId,omitempty"`
	TransactionRequest     transactionRequestType `json:"transactionRequest"`
}

type createTransactionWrapper struct {
	CreateTransactionRequest createTransactionRequest `json:"createTransactionRequest"`
}

type createTransactionResponse struct {
	TransactionResponse *TransactionResponse `json:"transactionResponse"`
	Messages            messagesEnvelope     `json:"messages"`
}
