package payment

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config identifies the merchant against the payment provider.
type Config struct {
	MerchantID string
	HashKey    string
	HashIV     string
	Mode       string // "Stage" or "Prod"
}

// Endpoint returns the checkout URL for the configured mode.
func (c Config) Endpoint() string {
	if c.Mode == "Prod" {
		return "https://payment.ecpay.com.tw/Cashier/AioCheckOut/V5"
	}
	return "https://payment-stage.ecpay.com.tw/Cashier/AioCheckOut/V5"
}

// CheckMacValue computes the provider's request signature: parameters
// sorted case-insensitively, sandwiched between HashKey and HashIV,
// URL-encoded with the provider's legacy replacements, lowercased, SHA-256,
// uppercase hex. This is a wire contract; do not "fix" it.
func CheckMacValue(params map[string]string, hashKey, hashIV string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "CheckMacValue" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})

	var sb strings.Builder
	sb.WriteString("HashKey=" + hashKey)
	for _, k := range keys {
		sb.WriteString("&" + k + "=" + params[k])
	}
	sb.WriteString("&HashIV=" + hashIV)

	encoded := strings.ToLower(legacyURLEncode(sb.String()))
	sum := sha256.Sum256([]byte(encoded))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// VerifyCallback checks the CheckMacValue carried by a provider callback.
func VerifyCallback(params map[string]string, hashKey, hashIV string) bool {
	got := params["CheckMacValue"]
	if got == "" {
		return false
	}
	want := CheckMacValue(params, hashKey, hashIV)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// GenTradeNo produces a unique merchant trade number.
func GenTradeNo(prefix string) string {
	if prefix == "" {
		prefix = "PRO"
	}
	stamp := time.Now().Format("20060102150405")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return prefix + stamp + suffix
}

// legacyURLEncode escapes like the provider's reference implementation:
// unreserved characters and the legacy exceptions -_.!*()~ stay literal,
// space becomes '+', everything else becomes %XX.
func legacyURLEncode(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			sb.WriteByte(c)
		case c == '-' || c == '_' || c == '.' || c == '!' || c == '*' || c == '(' || c == ')' || c == '~' || c == '\'':
			sb.WriteByte(c)
		case c == ' ':
			sb.WriteByte('+')
		default:
			sb.WriteByte('%')
			sb.WriteString(strings.ToUpper(hex.EncodeToString([]byte{c})))
		}
	}
	return sb.String()
}
