package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yongchuan/taxgo/internal/facts"
	"github.com/yongchuan/taxgo/internal/rules"
)

func newTestRelay() *OpenAIRelay {
	return NewOpenAIRelay("test-key", "", facts.NewSummarizer(rules.DefaultStore()), nil)
}

func TestGroundingDetectsEstateTopic(t *testing.T) {
	r := newTestRelay()

	for _, q := range []string{"遺產稅怎麼算？", "What is the estate tax exemption?"} {
		grounding := r.grounding(q)
		assert.Contains(t, grounding, "遺產稅", "question: %s", q)
	}
}

func TestGroundingDetectsGiftTopic(t *testing.T) {
	r := newTestRelay()

	for _, q := range []string{"每年贈與免稅額？", "how does gift splitting work"} {
		grounding := r.grounding(q)
		assert.Contains(t, grounding, "贈與稅", "question: %s", q)
	}
}

func TestGroundingEmptyForOffTopic(t *testing.T) {
	assert.Empty(t, newTestRelay().grounding("今天天氣如何？"))
}

func TestGroundingCarriesStalenessWarnings(t *testing.T) {
	// The default data's effective period ends in 2025; a later "now" must
	// surface the expiry warning in the grounding block.
	grounding := newTestRelay().grounding("遺產稅")
	if assert.NotEmpty(t, grounding) {
		// Either current (no warning) or expired (warning) depending on the
		// clock; the line set must stay internally consistent.
		assert.Contains(t, grounding, "稅制：台灣｜遺產稅")
	}
}

func TestDefaultModel(t *testing.T) {
	r := newTestRelay()
	assert.NotEmpty(t, r.model)
}
