package loadbalancer

import (
	"sync"
	"testing"
)

func TestNextRotates(t *testing.T) {
	rr := NewRoundRobin([]string{"http://a:8080", "http://b:8080", "http://c:8080"})

	got := []string{rr.Next(), rr.Next(), rr.Next(), rr.Next()}
	want := []string{"http://a:8080", "http://b:8080", "http://c:8080", "http://a:8080"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Next() #%d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEmptyPoolFallsBack(t *testing.T) {
	rr := NewRoundRobin(nil)
	if rr.Next() == "" {
		t.Error("expected fallback instance, got empty string")
	}
}

func TestRemoveResetsIndex(t *testing.T) {
	rr := NewRoundRobin([]string{"http://a:8080", "http://b:8080"})
	rr.Next()
	rr.Next() // current wraps to 0 after two draws
	rr.Next() // current = 1
	rr.Remove("http://b:8080")

	if got := rr.Next(); got != "http://a:8080" {
		t.Errorf("Next() after remove = %q, want http://a:8080", got)
	}
}

func TestNextIsConcurrencySafe(t *testing.T) {
	rr := NewRoundRobin([]string{"http://a:8080", "http://b:8080"})

	var wg sync.WaitGroup
	counts := make([]map[string]int, 8)
	for i := range counts {
		counts[i] = make(map[string]int)
		wg.Add(1)
		go func(m map[string]int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m[rr.Next()]++
			}
		}(counts[i])
	}
	wg.Wait()

	total := make(map[string]int)
	for _, m := range counts {
		for k, v := range m {
			total[k] += v
		}
	}
	if total["http://a:8080"] != 400 || total["http://b:8080"] != 400 {
		t.Errorf("draws not evenly distributed: %v", total)
	}
}
