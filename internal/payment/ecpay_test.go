package payment

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testHashKey = "5294y06JbISpM5x9"
	testHashIV  = "v77hoKGq4kWxNNIS"
)

func sampleParams() map[string]string {
	return map[string]string{
		"MerchantID":        "2000132",
		"MerchantTradeNo":   "PRO20250601120000ABCDEF",
		"MerchantTradeDate": "2025/06/01 12:00:00",
		"PaymentType":       "aio",
		"TotalAmount":       "299",
		"TradeDesc":         "pro plan subscription",
		"ItemName":          "Pro 方案",
		"ReturnURL":         "https://example.com/api/payment/notify",
		"ChoosePayment":     "Credit",
		"EncryptType":       "1",
	}
}

func TestCheckMacValueDeterministic(t *testing.T) {
	a := CheckMacValue(sampleParams(), testHashKey, testHashIV)
	b := CheckMacValue(sampleParams(), testHashKey, testHashIV)

	assert.Equal(t, a, b)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{64}$`), a)
}

func TestCheckMacValueIgnoresExistingMac(t *testing.T) {
	params := sampleParams()
	want := CheckMacValue(params, testHashKey, testHashIV)

	params["CheckMacValue"] = "SOMETHING"
	assert.Equal(t, want, CheckMacValue(params, testHashKey, testHashIV))
}

func TestCheckMacValueSensitiveToValues(t *testing.T) {
	base := CheckMacValue(sampleParams(), testHashKey, testHashIV)

	tampered := sampleParams()
	tampered["TotalAmount"] = "300"
	assert.NotEqual(t, base, CheckMacValue(tampered, testHashKey, testHashIV))

	otherKey := CheckMacValue(sampleParams(), "otherkey", testHashIV)
	assert.NotEqual(t, base, otherKey)
}

func TestVerifyCallbackRoundTrip(t *testing.T) {
	params := sampleParams()
	params["RtnCode"] = "1"
	params["CheckMacValue"] = CheckMacValue(params, testHashKey, testHashIV)

	assert.True(t, VerifyCallback(params, testHashKey, testHashIV))
}

func TestVerifyCallbackRejectsTampered(t *testing.T) {
	params := sampleParams()
	params["RtnCode"] = "1"
	params["CheckMacValue"] = CheckMacValue(params, testHashKey, testHashIV)

	params["TotalAmount"] = "1"
	assert.False(t, VerifyCallback(params, testHashKey, testHashIV))
}

func TestVerifyCallbackRejectsMissingMac(t *testing.T) {
	assert.False(t, VerifyCallback(sampleParams(), testHashKey, testHashIV))
}

func TestLegacyURLEncode(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"abcXYZ019", "abcXYZ019"},
		{"a b", "a+b"},
		{"-_.!*()~'", "-_.!*()~'"},
		{"a=b&c", "a%3Db%26c"},
		{"https://x", "https%3A%2F%2Fx"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, legacyURLEncode(tt.in))
	}
}

func TestGenTradeNo(t *testing.T) {
	a := GenTradeNo("PRO")
	b := GenTradeNo("PRO")

	assert.NotEqual(t, a, b)
	assert.Regexp(t, regexp.MustCompile(`^PRO\d{14}[0-9A-F]{6}$`), a)
	assert.Regexp(t, regexp.MustCompile(`^PRO\d{14}`), GenTradeNo(""))
}

func TestEndpointByMode(t *testing.T) {
	assert.Contains(t, Config{Mode: "Stage"}.Endpoint(), "payment-stage.ecpay.com.tw")
	assert.Contains(t, Config{Mode: "Prod"}.Endpoint(), "payment.ecpay.com.tw")
	assert.Contains(t, Config{}.Endpoint(), "payment-stage.ecpay.com.tw")
}
