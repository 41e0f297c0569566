package quota

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Plan is a subscription tier.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPro     Plan = "pro"
	PlanProPlus Plan = "pro_plus"
)

// DefaultDailyLimits mirrors the product's freemium tiers.
func DefaultDailyLimits() map[Plan]int {
	return map[Plan]int{
		PlanFree:    10,
		PlanPro:     100,
		PlanProPlus: 300,
	}
}

// Decision is the outcome of a quota check. Used counts the consumed calls
// including the one just admitted.
type Decision struct {
	Allowed bool `json:"allowed"`
	Used    int  `json:"used"`
	Limit   int  `json:"limit"`
}

// Service gates metered operations per caller identity and day. The tax
// engine never sees this; only the request layer consults it.
type Service interface {
	CheckAndIncrement(identity string, day time.Time) Decision
}

// MemoryService is an in-process quota counter keyed by identity and date.
// Counters for past days are dropped lazily.
type MemoryService struct {
	mu     sync.Mutex
	limits map[Plan]int
	plans  map[string]Plan
	used   map[string]int
	day    string
}

// NewMemoryService creates a counter with the given per-plan daily limits;
// nil uses the defaults. Unknown identities are treated as free tier.
func NewMemoryService(limits map[Plan]int) *MemoryService {
	if limits == nil {
		limits = DefaultDailyLimits()
	}
	return &MemoryService{
		limits: limits,
		plans:  make(map[string]Plan),
		used:   make(map[string]int),
	}
}

// SetPlan assigns a plan to an identity.
func (m *MemoryService) SetPlan(identity string, plan Plan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[identity] = plan
}

// CheckAndIncrement admits the call and bumps the day counter unless the
// identity already reached its plan limit.
func (m *MemoryService) CheckAndIncrement(identity string, day time.Time) Decision {
	dayKey := day.Format("2006-01-02")

	m.mu.Lock()
	defer m.mu.Unlock()

	// New day: yesterday's counters are dead weight.
	if m.day != dayKey {
		m.day = dayKey
		m.used = make(map[string]int)
	}

	plan, ok := m.plans[identity]
	if !ok {
		plan = PlanFree
	}
	limit := m.limits[plan]

	key := identity + "|" + dayKey
	used := m.used[key]
	if used >= limit {
		return Decision{Allowed: false, Used: used, Limit: limit}
	}

	m.used[key] = used + 1
	return Decision{Allowed: true, Used: used + 1, Limit: limit}
}

// NewIdentity mints an anonymous caller identity.
func NewIdentity() string {
	return "anon-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
