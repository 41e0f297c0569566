package payment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutRequest describes one subscription purchase.
type CheckoutRequest struct {
	PlanName    string
	Amount      decimal.Decimal
	Description string
	ReturnURL   string
}

// Checkout is a signed, ready-to-post checkout form.
type Checkout struct {
	Endpoint string
	TradeNo  string
	Params   map[string]string
}

// Provider abstracts the payment gateway. The server layer talks to this;
// nothing else in the engine knows payments exist.
type Provider interface {
	NewCheckout(req CheckoutRequest) (*Checkout, error)
	VerifyNotification(params map[string]string) bool
}

// ECPayProvider signs checkouts against ECPay's AioCheckOut contract.
type ECPayProvider struct {
	cfg Config
}

// NewECPayProvider creates a provider for the configured merchant.
func NewECPayProvider(cfg Config) *ECPayProvider {
	return &ECPayProvider{cfg: cfg}
}

// NewCheckout builds the signed parameter set for a checkout form post.
func (p *ECPayProvider) NewCheckout(req CheckoutRequest) (*Checkout, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("checkout amount must be positive, got %s", req.Amount)
	}

	tradeNo := GenTradeNo("PRO")
	params := map[string]string{
		"MerchantID":        p.cfg.MerchantID,
		"MerchantTradeNo":   tradeNo,
		"MerchantTradeDate": time.Now().Format("2006/01/02 15:04:05"),
		"PaymentType":       "aio",
		"TotalAmount":       req.Amount.Round(0).StringFixed(0),
		"TradeDesc":         req.Description,
		"ItemName":          req.PlanName,
		"ReturnURL":         req.ReturnURL,
		"ChoosePayment":     "Credit",
		"EncryptType":       "1",
	}
	params["CheckMacValue"] = CheckMacValue(params, p.cfg.HashKey, p.cfg.HashIV)

	return &Checkout{
		Endpoint: p.cfg.Endpoint(),
		TradeNo:  tradeNo,
		Params:   params,
	}, nil
}

// VerifyNotification checks the signature on a gateway callback.
func (p *ECPayProvider) VerifyNotification(params map[string]string) bool {
	return VerifyCallback(params, p.cfg.HashKey, p.cfg.HashIV)
}
