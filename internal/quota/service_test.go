package quota

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var day1 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func TestCheckAndIncrementFreeTier(t *testing.T) {
	svc := NewMemoryService(nil)

	for i := 1; i <= 10; i++ {
		d := svc.CheckAndIncrement("anon-abc", day1)
		assert.True(t, d.Allowed)
		assert.Equal(t, i, d.Used)
		assert.Equal(t, 10, d.Limit)
	}

	d := svc.CheckAndIncrement("anon-abc", day1)
	assert.False(t, d.Allowed)
	assert.Equal(t, 10, d.Used)
}

func TestCheckAndIncrementPlanLimits(t *testing.T) {
	svc := NewMemoryService(map[Plan]int{PlanFree: 1, PlanPro: 2, PlanProPlus: 3})
	svc.SetPlan("pro-user", PlanPro)

	assert.True(t, svc.CheckAndIncrement("pro-user", day1).Allowed)
	assert.True(t, svc.CheckAndIncrement("pro-user", day1).Allowed)
	assert.False(t, svc.CheckAndIncrement("pro-user", day1).Allowed)

	// Unknown identities fall back to free.
	assert.True(t, svc.CheckAndIncrement("stranger", day1).Allowed)
	assert.False(t, svc.CheckAndIncrement("stranger", day1).Allowed)
}

func TestCheckAndIncrementDayRollover(t *testing.T) {
	svc := NewMemoryService(map[Plan]int{PlanFree: 1})

	assert.True(t, svc.CheckAndIncrement("u", day1).Allowed)
	assert.False(t, svc.CheckAndIncrement("u", day1).Allowed)

	day2 := day1.AddDate(0, 0, 1)
	d := svc.CheckAndIncrement("u", day2)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Used)
}

func TestCheckAndIncrementIdentitiesIsolated(t *testing.T) {
	svc := NewMemoryService(map[Plan]int{PlanFree: 1})

	assert.True(t, svc.CheckAndIncrement("a", day1).Allowed)
	assert.True(t, svc.CheckAndIncrement("b", day1).Allowed)
	assert.False(t, svc.CheckAndIncrement("a", day1).Allowed)
}

func TestCheckAndIncrementConcurrent(t *testing.T) {
	svc := NewMemoryService(map[Plan]int{PlanFree: 50})

	var wg sync.WaitGroup
	allowed := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- svc.CheckAndIncrement("u", day1).Allowed
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	assert.Equal(t, 50, count)
}

func TestNewIdentity(t *testing.T) {
	a := NewIdentity()
	b := NewIdentity()

	assert.True(t, strings.HasPrefix(a, "anon-"))
	assert.Len(t, a, len("anon-")+12)
	assert.NotEqual(t, a, b)
}
