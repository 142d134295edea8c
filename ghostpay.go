// Package ghostpay constructs payment processor adapters behind a single
// uniform interface. The processor is chosen exactly once, here; all
// subsequent calls go straight to the selected adapter.
package ghostpay

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ghostpay/ghostpay/config"
	"github.com/ghostpay/ghostpay/internal/authnet"
	"github.com/ghostpay/ghostpay/internal/logging"
	"github.com/ghostpay/ghostpay/processor"
	"github.com/ghostpay/ghostpay/processor/authorizenet"
	stripeadapter "github.com/ghostpay/ghostpay/processor/stripe"
)

// New builds the adapter named by cfg.Processor. Unknown processor names and
// missing credentials fail here, synchronously, before any adapter exists.
// A nil logger is replaced with one built from cfg.Logging, or a no-op logger
// when that section is absent too.
func New(cfg *config.Config, logger *zap.Logger) (processor.Processor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ghostpay: config is nil")
	}
	if logger == nil {
		if cfg.Logging == (logging.Config{}) {
			logger = zap.NewNop()
		} else {
			logger = logging.New(cfg.Logging)
		}
	}

	switch processor.Type(cfg.Processor) {
	case processor.TypeStripe:
		return newStripe(cfg.Stripe, logger)
	case processor.TypeAuthorizeNet:
		return newAuthorizeNet(cfg.AuthorizeNet, logger)
	default:
		return nil, fmt.Errorf("ghostpay: unknown payment processor %q", cfg.Processor)
	}
}

func newStripe(cfg config.StripeConfig, logger *zap.Logger) (processor.Processor, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("ghostpay: stripe secret key not configured")
	}
	return stripeadapter.New(cfg.SecretKey, logger), nil
}

func newAuthorizeNet(cfg config.AuthorizeNetConfig, logger *zap.Logger) (processor.Processor, error) {
	if cfg.APILoginID == "" || cfg.TransactionKey == "" {
		return nil, fmt.Errorf("ghostpay: authorize.net credentials not configured")
	}
	client := authnet.NewClient(authnet.Config{
		APILoginID:     cfg.APILoginID,
		TransactionKey: cfg.TransactionKey,
		Sandbox:        cfg.Sandbox,
		Endpoint:       cfg.Endpoint,
	}, logger)
	return authorizenet.New(client, logger), nil
}
