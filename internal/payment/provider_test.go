package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider() *ECPayProvider {
	return NewECPayProvider(Config{
		MerchantID: "2000132",
		HashKey:    testHashKey,
		HashIV:     testHashIV,
		Mode:       "Stage",
	})
}

func TestNewCheckoutSignsParams(t *testing.T) {
	checkout, err := testProvider().NewCheckout(CheckoutRequest{
		PlanName:    "Pro 方案",
		Amount:      decimal.NewFromInt(299),
		Description: "pro plan subscription",
		ReturnURL:   "https://example.com/api/payment/notify",
	})
	require.NoError(t, err)

	assert.Contains(t, checkout.Endpoint, "payment-stage.ecpay.com.tw")
	assert.Equal(t, "299", checkout.Params["TotalAmount"])
	assert.Equal(t, checkout.TradeNo, checkout.Params["MerchantTradeNo"])

	// The embedded MAC must verify against the same params.
	assert.True(t, testProvider().VerifyNotification(checkout.Params))
}

func TestNewCheckoutRejectsNonPositiveAmount(t *testing.T) {
	_, err := testProvider().NewCheckout(CheckoutRequest{Amount: decimal.Zero})
	assert.Error(t, err)

	_, err = testProvider().NewCheckout(CheckoutRequest{Amount: decimal.NewFromInt(-1)})
	assert.Error(t, err)
}

func TestVerifyNotificationRejectsTamper(t *testing.T) {
	checkout, err := testProvider().NewCheckout(CheckoutRequest{
		PlanName: "Pro",
		Amount:   decimal.NewFromInt(299),
	})
	require.NoError(t, err)

	checkout.Params["TotalAmount"] = "1"
	assert.False(t, testProvider().VerifyNotification(checkout.Params))
}
