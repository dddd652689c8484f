package product

import (
	"fmt"
	"strings"
	"testing"

	"github.com/thukha/backoffice/pkg/apperror"
)

func TestNextBatchNumberRetriesOnCollision(t *testing.T) {
	draws := []string{"aaaa1111", "aaaa1111", "bbbb2222"}
	var i int
	random := func() string {
		s := draws[i]
		i++
		return s
	}
	exists := func(number string) (bool, error) {
		return number == "B-aaaa1111", nil
	}

	number, err := nextBatchNumber(random, exists)
	if err != nil {
		t.Fatalf("nextBatchNumber() error = %v", err)
	}
	if number != "B-bbbb2222" {
		t.Errorf("number = %q, want B-bbbb2222", number)
	}
	if i != 3 {
		t.Errorf("draws = %d, want 3", i)
	}
}

func TestNextBatchNumberGivesUpAfterMaxAttempts(t *testing.T) {
	var draws int
	random := func() string {
		draws++
		return fmt.Sprintf("dup%d", draws)
	}
	exists := func(string) (bool, error) { return true, nil }

	_, err := nextBatchNumber(random, exists)
	if err == nil {
		t.Fatal("expected an error when every candidate collides")
	}
	if draws != maxBatchNumberAttempts {
		t.Errorf("draws = %d, want %d", draws, maxBatchNumberAttempts)
	}
	if apperror.StatusOf(err) != 500 {
		t.Errorf("status = %d, want 500", apperror.StatusOf(err))
	}
	if !strings.Contains(err.Error(), "batch number") {
		t.Errorf("error %q should mention batch number", err)
	}
}

func TestNextBatchNumberPrefix(t *testing.T) {
	random := func() string { return "cafe0042" }
	exists := func(string) (bool, error) { return false, nil }

	number, err := nextBatchNumber(random, exists)
	if err != nil {
		t.Fatalf("nextBatchNumber() error = %v", err)
	}
	if !strings.HasPrefix(number, "B-") {
		t.Errorf("number = %q, want B- prefix", number)
	}
}
