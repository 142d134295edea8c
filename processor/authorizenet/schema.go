package authorizenet

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/ghostpay/ghostpay/internal/authnet"
	"github.com/ghostpay/ghostpay/processor"
)

// Billing addresses and cards are validated locally before any vendor call,
// so clearly invalid input never costs a billable API request. The first
// failing field aborts the operation with its human-readable message.

type billingAddressSchema struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Address   string `validate:"required"`
	City      string `validate:"required"`
	State     string `validate:"required"`
	Zip       string `validate:"required"`
	Country   string `validate:"required,eq=us"`
}

type cardSchema struct {
	Number   string `validate:"required,credit_card"`
	ExpYear  string `validate:"required,exp_year"`
	ExpMonth string `validate:"required,exp_month"`
	CVC      string `validate:"required,min=3,max=4"`
}

var billingAddressMessages = map[string]string{
	"FirstName": "Missing billing address first name.",
	"LastName":  "Missing billing address last name.",
	"Address":   "Missing billing address.",
	"City":      "Missing billing address city.",
	"State":     "Missing billing address state.",
	"Zip":       "Missing billing address zip.",
	"Country":   "Only US cards are supported at this time.",
}

var cardMessages = map[string]string{
	"Number":   "Invalid credit card number.",
	"ExpYear":  "Invalid expiration year.",
	"ExpMonth": "Invalid expiration month.",
	"CVC":      "Invalid CVC.",
}

var (
	expYearPattern  = regexp.MustCompile(`^[12][0-9]{3}$`)
	expMonthPattern = regexp.MustCompile(`^(0?[1-9]|1[012])$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// validator has no expiry-date rules of its own.
	_ = v.RegisterValidation("exp_year", func(fl validator.FieldLevel) bool {
		return expYearPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("exp_month", func(fl validator.FieldLevel) bool {
		return expMonthPattern.MatchString(fl.Field().String())
	})
	return v
}

// schemaError maps the first failing field to its message.
func schemaError(err error, messages map[string]string) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &processor.Error{Code: "VALIDATION_ERROR", Message: err.Error()}
	}
	msg, ok := messages[verrs[0].Field()]
	if !ok {
		msg = verrs[0].Error()
	}
	return &processor.Error{Code: "VALIDATION_ERROR", Message: msg}
}

// validateBillingAddress checks the address and builds the wire value object.
// Country defaults to "us"; anything else is rejected.
func (a *Adapter) validateBillingAddress(addr processor.BillingAddress) (*authnet.BillTo, error) {
	schema := billingAddressSchema{
		FirstName: addr.FirstName,
		LastName:  addr.LastName,
		Address:   addr.Address,
		City:      addr.City,
		State:     addr.State,
		Zip:       addr.Zip,
		Country:   addr.Country,
	}
	if schema.Country == "" {
		schema.Country = "us"
	}
	if err := a.validate.Struct(schema); err != nil {
		return nil, schemaError(err, billingAddressMessages)
	}

	return &authnet.BillTo{
		FirstName: schema.FirstName,
		LastName:  schema.LastName,
		Address:   schema.Address,
		City:      schema.City,
		State:     schema.State,
		Zip:       schema.Zip,
		Country:   "us",
	}, nil
}

// validateCard checks the raw card fields and builds the wire value object,
// converting expiry to the vendor's "YYYY-MM" form.
func (a *Adapter) validateCard(card processor.CardInput) (*authnet.CreditCard, error) {
	schema := cardSchema{
		Number:   card.Number,
		ExpYear:  card.ExpYear,
		ExpMonth: card.ExpMonth,
		CVC:      card.CVC,
	}
	if err := a.validate.Struct(schema); err != nil {
		return nil, schemaError(err, cardMessages)
	}

	return &authnet.CreditCard{
		CardNumber:     schema.Number,
		ExpirationDate: schema.ExpYear + "-" + schema.ExpMonth,
		CardCode:       schema.CVC,
	}, nil
}
