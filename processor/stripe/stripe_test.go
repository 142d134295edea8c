package stripe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/form"
	"go.uber.org/zap"

	"github.com/ghostpay/ghostpay/processor"
)

type backendCall struct {
	method string
	path   string
	params stripe.ParamsContainer
}

// fakeBackend serves canned JSON bodies keyed by "METHOD path". List
// endpoints go through CallRaw, everything else through Call.
type fakeBackend struct {
	t         *testing.T
	responses map[string]string
	errs      map[string]error
	calls     []backendCall
}

func (b *fakeBackend) respond(key string, v stripe.LastResponseSetter) error {
	if err, ok := b.errs[key]; ok {
		return err
	}
	body, ok := b.responses[key]
	if !ok {
		b.t.Fatalf("unexpected stripe call: %s", key)
	}
	return json.Unmarshal([]byte(body), v)
}

func (b *fakeBackend) Call(method, path, key string, params stripe.ParamsContainer, v stripe.LastResponseSetter) error {
	b.calls = append(b.calls, backendCall{method: method, path: path, params: params})
	return b.respond(method+" "+path, v)
}

func (b *fakeBackend) CallRaw(method, path, key string, body *form.Values, params *stripe.Params, v stripe.LastResponseSetter) error {
	b.calls = append(b.calls, backendCall{method: method, path: path})
	return b.respond(method+" "+path, v)
}

func (b *fakeBackend) CallStreaming(method, path, key string, params stripe.ParamsContainer, v stripe.StreamingLastResponseSetter) error {
	return nil
}

func (b *fakeBackend) CallMultipart(method, path, key, boundary string, body *bytes.Buffer, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (b *fakeBackend) SetMaxNetworkRetries(maxNetworkRetries int64) {}

func newTestAdapter(t *testing.T, responses map[string]string, errs map[string]error) (*Adapter, *fakeBackend) {
	backend := &fakeBackend{t: t, responses: responses, errs: errs}
	backends := &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
	return NewWithBackends("sk_test_ghostpay", backends, zap.NewNop()), backend
}

func TestAdapter_Name(t *testing.T) {
	adapter, _ := newTestAdapter(t, nil, nil)
	assert.Equal(t, "stripe", adapter.Name())
}

func TestAdapter_IsValidErrorCode(t *testing.T) {
	adapter, _ := newTestAdapter(t, nil, nil)

	for _, code := range []string{
		"invalid_number",
		"invalid_expiry_month",
		"invalid_expiry_year",
		"invalid_cvc",
		"incorrect_number",
		"expired_card",
		"incorrect_cvc",
		"incorrect_zip",
		"card_declined",
		"missing",
		"processing_error",
	} {
		assert.True(t, adapter.IsValidErrorCode(code), code)
	}

	assert.False(t, adapter.IsValidErrorCode("rate_limit"))
	assert.False(t, adapter.IsValidErrorCode(""))
	assert.False(t, adapter.IsValidErrorCode("CARD_DECLINED"))
}

func TestAdapter_CreateCustomer(t *testing.T) {
	adapter, backend := newTestAdapter(t, map[string]string{
		"POST /v1/customers": `{"id":"cus_1","email":"jane@example.com","metadata":{"external_id":"42"}}`,
	}, nil)

	customer, err := adapter.CreateCustomer(context.Background(), processor.CreateCustomerRequest{
		Email:      "jane@example.com",
		ExternalID: "42",
	})
	require.NoError(t, err)
	assert.Equal(t, "cus_1", customer.ID)
	assert.Equal(t, "jane@example.com", customer.Email)
	assert.Equal(t, "42", customer.ExternalID)

	require.Len(t, backend.calls, 1)
	params, ok := backend.calls[0].params.(*stripe.CustomerParams)
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", stripe.StringValue(params.Email))
	assert.Equal(t, "42", params.Metadata["external_id"])
}

func TestAdapter_GetCustomer(t *testing.T) {
	adapter, _ := newTestAdapter(t, map[string]string{
		"GET /v1/customers/cus_1": `{"id":"cus_1","email":"jane@example.com","description":"vip"}`,
	}, nil)

	customer, err := adapter.GetCustomer(context.Background(), processor.GetCustomerRequest{CustomerID: "cus_1"})
	require.NoError(t, err)
	assert.Equal(t, "cus_1", customer.ID)
	assert.Equal(t, "vip", customer.Description)
}

func TestAdapter_UpdateCustomer(t *testing.T) {
	adapter, backend := newTestAdapter(t, map[string]string{
		"POST /v1/customers/cus_1": `{"id":"cus_1","email":"jane@new.example.com"}`,
	}, nil)

	customer, err := adapter.UpdateCustomer(context.Background(), processor.UpdateCustomerRequest{
		CustomerID: "cus_1",
		Email:      "jane@new.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@new.example.com", customer.Email)

	params, ok := backend.calls[0].params.(*stripe.CustomerParams)
	require.True(t, ok)
	assert.Equal(t, "jane@new.example.com", stripe.StringValue(params.Email))
	assert.Nil(t, params.Description)
}

func TestAdapter_DeleteCustomer(t *testing.T) {
	adapter, backend := newTestAdapter(t, map[string]string{
		"DELETE /v1/customers/cus_1": `{"id":"cus_1","deleted":true}`,
	}, nil)

	err := adapter.DeleteCustomer(context.Background(), processor.DeleteCustomerRequest{CustomerID: "cus_1"})
	require.NoError(t, err)
	assert.Len(t, backend.calls, 1)
}

func TestAdapter_CreateCard(t *testing.T) {
	ctx := context.Background()

	t.Run("tokenizes then attaches", func(t *testing.T) {
		adapter, backend := newTestAdapter(t, map[string]string{
			"POST /v1/tokens":                  `{"id":"tok_1"}`,
			"POST /v1/customers/cus_1/sources": `{"id":"card_1","last4":"4242","brand":"Visa","exp_month":12,"exp_year":2030}`,
		}, nil)

		card, err := adapter.CreateCard(ctx, processor.CreateCardRequest{
			CustomerID: "cus_1",
			Card: processor.CardInput{
				Number:   "4242424242424242",
				ExpMonth: "12",
				ExpYear:  "2030",
				CVC:      "123",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "card_1", card.ID)
		assert.Equal(t, "cus_1", card.CustomerID)
		assert.Equal(t, "4242", card.Last4)
		assert.Equal(t, "Visa", card.Brand)
		assert.Equal(t, int64(12), card.ExpMonth)
		assert.Equal(t, int64(2030), card.ExpYear)

		require.Len(t, backend.calls, 2)
		tokenParams, ok := backend.calls[0].params.(*stripe.TokenParams)
		require.True(t, ok)
		require.NotNil(t, tokenParams.Card)
		assert.Equal(t, "4242424242424242", stripe.StringValue(tokenParams.Card.Number))
		assert.Equal(t, "12", stripe.StringValue(tokenParams.Card.ExpMonth))

		cardParams, ok := backend.calls[1].params.(*stripe.CardParams)
		require.True(t, ok)
		assert.Equal(t, "tok_1", stripe.StringValue(cardParams.Token))
	})

	t.Run("token failure skips the attach step", func(t *testing.T) {
		adapter, backend := newTestAdapter(t, nil, map[string]error{
			"POST /v1/tokens": errors.New("invalid card number"),
		})

		_, err := adapter.CreateCard(ctx, processor.CreateCardRequest{
			CustomerID: "cus_1",
			Card:       processor.CardInput{Number: "1234"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to tokenize card")
		assert.Len(t, backend.calls, 1)
	})
}

func TestAdapter_GetCard(t *testing.T) {
	adapter, _ := newTestAdapter(t, map[string]string{
		"GET /v1/customers/cus_1/sources/card_1": `{"id":"card_1","last4":"4242","brand":"Visa"}`,
	}, nil)

	card, err := adapter.GetCard(context.Background(), processor.GetCardRequest{CustomerID: "cus_1", CardID: "card_1"})
	require.NoError(t, err)
	assert.Equal(t, "card_1", card.ID)
	assert.Equal(t, "4242", card.Last4)
}

func TestAdapter_DeleteCard(t *testing.T) {
	adapter, backend := newTestAdapter(t, map[string]string{
		"DELETE /v1/customers/cus_1/sources/card_1": `{"id":"card_1","deleted":true}`,
	}, nil)

	err := adapter.DeleteCard(context.Background(), processor.DeleteCardRequest{CustomerID: "cus_1", CardID: "card_1"})
	require.NoError(t, err)
	assert.Len(t, backend.calls, 1)
}

func TestAdapter_GetCards(t *testing.T) {
	adapter, _ := newTestAdapter(t, map[string]string{
		"GET /v1/customers/cus_1/sources": `{
			"object": "list",
			"data": [
				{"id":"card_1","object":"card","last4":"4242","brand":"Visa"},
				{"id":"card_2","object":"card","last4":"1111","brand":"MasterCard"}
			],
			"has_more": false
		}`,
	}, nil)

	cards, err := adapter.GetCards(context.Background(), processor.GetCardsRequest{CustomerID: "cus_1"})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "card_1", cards[0].ID)
	assert.Equal(t, "cus_1", cards[0].CustomerID)
	assert.Equal(t, "1111", cards[1].Last4)
}

func TestAdapter_SetDefaultCard(t *testing.T) {
	adapter, backend := newTestAdapter(t, map[string]string{
		"POST /v1/customers/cus_1": `{"id":"cus_1","default_source":{"id":"card_2","object":"card"}}`,
	}, nil)

	customer, err := adapter.SetDefaultCard(context.Background(), processor.SetDefaultCardRequest{
		CustomerID: "cus_1",
		CardID:     "card_2",
	})
	require.NoError(t, err)
	assert.Equal(t, "card_2", customer.DefaultCardID)

	require.Len(t, backend.calls, 1)
	params, ok := backend.calls[0].params.(*stripe.CustomerParams)
	require.True(t, ok)
	assert.Equal(t, "card_2", stripe.StringValue(params.DefaultSource))
}

func TestAdapter_CreateCharge(t *testing.T) {
	adapter, backend := newTestAdapter(t, map[string]string{
		"POST /v1/charges": `{"id":"ch_1","amount":10000,"currency":"usd","status":"succeeded","customer":"cus_1"}`,
	}, nil)

	charge, err := adapter.CreateCharge(context.Background(), processor.CreateChargeRequest{
		Amount:     10000,
		Currency:   "usd",
		CustomerID: "cus_1",
		Source:     "card_1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ch_1", charge.ID)
	assert.Equal(t, int64(10000), charge.Amount)
	assert.Equal(t, "succeeded", charge.Status)
	assert.Equal(t, "cus_1", charge.CustomerID)

	require.Len(t, backend.calls, 1)
	params, ok := backend.calls[0].params.(*stripe.ChargeParams)
	require.True(t, ok)
	assert.Equal(t, int64(10000), stripe.Int64Value(params.Amount))
	assert.Equal(t, "cus_1", stripe.StringValue(params.Customer))
	require.NotNil(t, params.Source)
	assert.Equal(t, "card_1", stripe.StringValue(params.Source.Token))
}

func TestAdapter_Plans(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		adapter, backend := newTestAdapter(t, map[string]string{
			"POST /v1/plans": `{"id":"plan_basic","amount":500,"currency":"usd","interval":"month","nickname":"Basic"}`,
		}, nil)

		plan, err := adapter.CreatePlan(ctx, processor.CreatePlanRequest{
			ID:       "plan_basic",
			Amount:   500,
			Currency: "usd",
			Interval: "month",
			Name:     "Basic",
		})
		require.NoError(t, err)
		assert.Equal(t, "plan_basic", plan.ID)
		assert.Equal(t, "Basic", plan.Name)
		assert.Equal(t, "month", plan.Interval)

		params, ok := backend.calls[0].params.(*stripe.PlanParams)
		require.True(t, ok)
		assert.Equal(t, "Basic", stripe.StringValue(params.Nickname))
		require.NotNil(t, params.Product)
		assert.Equal(t, "Basic", stripe.StringValue(params.Product.Name))
	})

	t.Run("update sends the nickname without metadata", func(t *testing.T) {
		adapter, backend := newTestAdapter(t, map[string]string{
			"POST /v1/plans/plan_basic": `{"id":"plan_basic","nickname":"Basic v2"}`,
		}, nil)

		plan, err := adapter.UpdatePlan(ctx, processor.UpdatePlanRequest{
			PlanID: "plan_basic",
			Name:   "Basic v2",
		})
		require.NoError(t, err)
		assert.Equal(t, "Basic v2", plan.Name)

		params, ok := backend.calls[0].params.(*stripe.PlanParams)
		require.True(t, ok)
		assert.Equal(t, "Basic v2", stripe.StringValue(params.Nickname))
		assert.Nil(t, params.Metadata)
	})

	t.Run("update includes metadata only when a description is present", func(t *testing.T) {
		adapter, backend := newTestAdapter(t, map[string]string{
			"POST /v1/plans/plan_basic": `{"id":"plan_basic","nickname":"Basic v2","metadata":{"description":"entry tier"}}`,
		}, nil)

		plan, err := adapter.UpdatePlan(ctx, processor.UpdatePlanRequest{
			PlanID:   "plan_basic",
			Name:     "Basic v2",
			Metadata: map[string]string{"description": "entry tier"},
		})
		require.NoError(t, err)
		assert.Equal(t, "entry tier", plan.Metadata["description"])

		params, ok := backend.calls[0].params.(*stripe.PlanParams)
		require.True(t, ok)
		assert.Equal(t, "entry tier", params.Metadata["description"])
	})

	t.Run("update with metadata but no description sends none", func(t *testing.T) {
		adapter, backend := newTestAdapter(t, map[string]string{
			"POST /v1/plans/plan_basic": `{"id":"plan_basic","nickname":"Basic v2"}`,
		}, nil)

		_, err := adapter.UpdatePlan(ctx, processor.UpdatePlanRequest{
			PlanID:   "plan_basic",
			Name:     "Basic v2",
			Metadata: map[string]string{"tier": "entry"},
		})
		require.NoError(t, err)

		params, ok := backend.calls[0].params.(*stripe.PlanParams)
		require.True(t, ok)
		assert.Nil(t, params.Metadata)
	})

	t.Run("get", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, map[string]string{
			"GET /v1/plans/plan_basic": `{"id":"plan_basic","amount":500,"currency":"usd","interval":"month","nickname":"Basic"}`,
		}, nil)

		plan, err := adapter.GetPlan(ctx, processor.GetPlanRequest{PlanID: "plan_basic"})
		require.NoError(t, err)
		assert.Equal(t, "plan_basic", plan.ID)
		assert.Equal(t, int64(500), plan.Amount)
	})

	t.Run("list", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, map[string]string{
			"GET /v1/plans": `{
				"object": "list",
				"data": [{"id":"plan_basic","object":"plan","amount":500,"nickname":"Basic"}],
				"has_more": false
			}`,
		}, nil)

		plans, err := adapter.FetchPlans(ctx, processor.FetchPlansRequest{})
		require.NoError(t, err)
		require.Len(t, plans, 1)
		assert.Equal(t, "plan_basic", plans[0].ID)
	})
}

func TestAdapter_CreateSubscription(t *testing.T) {
	adapter, backend := newTestAdapter(t, map[string]string{
		"POST /v1/subscriptions": `{"id":"sub_1","status":"active"}`,
	}, nil)

	sub, err := adapter.CreateSubscription(context.Background(), processor.CreateSubscriptionRequest{
		CustomerID: "cus_1",
		PlanID:     "plan_basic",
	})
	require.NoError(t, err)
	assert.Equal(t, "sub_1", sub.ID)
	assert.Equal(t, "cus_1", sub.CustomerID)
	assert.Equal(t, "plan_basic", sub.PlanID)
	assert.Equal(t, "active", sub.Status)

	params, ok := backend.calls[0].params.(*stripe.SubscriptionParams)
	require.True(t, ok)
	require.Len(t, params.Items, 1)
	assert.Equal(t, "plan_basic", stripe.StringValue(params.Items[0].Plan))
}

func TestAdapter_RefundTransactionUnsupported(t *testing.T) {
	adapter, _ := newTestAdapter(t, nil, nil)
	_, err := adapter.RefundTransaction(context.Background(), processor.RefundRequest{TransactionID: "ch_1"})
	assert.ErrorIs(t, err, processor.ErrNotImplemented)
}
