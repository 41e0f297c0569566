package advisor

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/yongchuan/taxgo/internal/domain"
	"github.com/yongchuan/taxgo/internal/facts"
)

// systemPersona is the product's advisor persona. It forbids invented
// rates; the grounding block below is the only tax data the model sees.
const systemPersona = `你是「永傳家族傳承教練」：
- 專長：壽險策略、稅源預留、遺贈稅邏輯、跨境情境、企業接班。
- 風格：專業、精準、具結構；口吻溫暖不推銷；輸出條列。
- 禁忌：不要虛構法規或稅率；不提供違法/逃漏稅建議。
- 所有稅率與免稅額，僅能引用下方「稅務事實」段落的內容。`

// Relay produces advisory narrative for a user question, grounded on the
// fact summarizer's output.
type Relay interface {
	Reply(ctx context.Context, question string) (string, error)
}

// OpenAIRelay relays questions to a chat-completion provider.
type OpenAIRelay struct {
	client *openai.Client
	model  string
	facts  *facts.Summarizer
	logger *zap.Logger
}

// NewOpenAIRelay creates a relay. The model defaults to gpt-4o-mini when
// empty.
func NewOpenAIRelay(apiKey, model string, summarizer *facts.Summarizer, logger *zap.Logger) *OpenAIRelay {
	if model == "" {
		model = openai.GPT4oMini
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIRelay{
		client: openai.NewClient(apiKey),
		model:  model,
		facts:  summarizer,
		logger: logger,
	}
}

// Reply grounds the question with the relevant fact sheet and relays it.
func (r *OpenAIRelay) Reply(ctx context.Context, question string) (string, error) {
	system := systemPersona
	if grounding := r.grounding(question); grounding != "" {
		system = system + "\n\n稅務事實：\n" + grounding
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("chat completion returned no choices")
	}

	r.logger.Debug("advisor reply generated",
		zap.String("model", r.model),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)))
	return resp.Choices[0].Message.Content, nil
}

// grounding picks the fact sheet matching the question topic. No topic
// match means no grounding block; the persona still forbids invented
// numbers.
func (r *OpenAIRelay) grounding(question string) string {
	q := strings.ToLower(question)

	var taxType domain.TaxType
	switch {
	case strings.Contains(q, "遺產") || strings.Contains(q, "estate"):
		taxType = domain.TaxTypeEstate
	case strings.Contains(q, "贈與") || strings.Contains(q, "gift"):
		taxType = domain.TaxTypeGift
	default:
		return ""
	}

	sheet, err := r.facts.Summarize(taxType, time.Now())
	if err != nil {
		r.logger.Warn("fact grounding unavailable", zap.Error(err))
		return ""
	}

	lines := make([]string, 0, len(sheet.Lines)+2)
	if sheet.IsDemo {
		lines = append(lines, "【注意】以下為示範性資料，務必提醒使用者以官方公告為準。")
	}
	if sheet.IsExpired {
		lines = append(lines, "【注意】以下資料的適用期間已過期，務必提醒使用者查證最新法令。")
	}
	lines = append(lines, sheet.Lines...)
	return strings.Join(lines, "\n")
}
