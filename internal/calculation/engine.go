package calculation

import (
	"github.com/yongchuan/taxgo/internal/rules"
)

// Engine bundles the estimators behind a single entry point. It is pure and
// stateless: every estimation is a synchronous function of its inputs and
// the read-only store, so concurrent callers need no locking.
type Engine struct {
	Estate *EstateEstimator
	Gift   *GiftEstimator
	Logger Logger
}

// NewEngine creates an engine over a rule store.
func NewEngine(store *rules.Store) *Engine {
	return &Engine{
		Estate: NewEstateEstimator(store),
		Gift:   NewGiftEstimator(store),
		Logger: NopLogger{},
	}
}

// SetLogger replaces the engine logger; nil installs the no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
	e.Estate.Logger = l
	e.Gift.Logger = l
}
