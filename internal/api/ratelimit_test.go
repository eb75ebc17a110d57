package api

import "testing"

// TestRateLimiterWeightsSearchStartHeavierThanStatusPoll pins the
// per-endpoint cost adaptation: a burst that comfortably covers several
// cheap status polls should not cover the same number of search
// launches, since POST /search is charged searchStartCost per request.
func TestRateLimiterWeightsSearchStartHeavierThanStatusPoll(t *testing.T) {
	rl := NewRateLimiter(60, 10) // burst of 10 tokens, refill irrelevant within this test

	pollsAllowed := 0
	for i := 0; i < 10; i++ {
		if ok, _ := rl.allow("1.2.3.4", statusPollCost); ok {
			pollsAllowed++
		}
	}
	if pollsAllowed != 10 {
		t.Fatalf("expected all 10 status polls (cost %v) to fit in a burst of 10, got %d", statusPollCost, pollsAllowed)
	}

	startsAllowed := 0
	for i := 0; i < 10; i++ {
		if ok, _ := rl.allow("5.6.7.8", searchStartCost); ok {
			startsAllowed++
		}
	}
	if startsAllowed != 2 {
		t.Fatalf("expected only 2 search starts (cost %v) to fit in a burst of 10, got %d", searchStartCost, startsAllowed)
	}
}

func TestRateLimiterRejectsOverBudgetIP(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	if ok, _ := rl.allow("9.9.9.9", statusPollCost); !ok {
		t.Fatal("first request within burst should be allowed")
	}
	if ok, retryAfter := rl.allow("9.9.9.9", statusPollCost); ok || retryAfter <= 0 {
		t.Fatalf("second request should be rejected with a positive retry-after, got allowed=%v retryAfter=%v", ok, retryAfter)
	}
}
