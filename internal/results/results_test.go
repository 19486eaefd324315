package results

import (
	"context"
	"testing"
)

func TestKeySchema(t *testing.T) {
	if got := resultKey("abc-123"); got != "result:abc-123" {
		t.Errorf("resultKey = %q", got)
	}
	if got := queryRecordKey("exec-1", 0); got != "result:exec-1#query#0" {
		t.Errorf("queryRecordKey = %q", got)
	}
	if got := queryRecordKey("exec-1", 7); got != "result:exec-1#query#7" {
		t.Errorf("queryRecordKey = %q", got)
	}
	if got := brandIndexKey("nike"); got != "results:brand:nike" {
		t.Errorf("brandIndexKey = %q", got)
	}
}

func TestSaveRequiresBrand(t *testing.T) {
	s := NewStore(nil)
	if _, err := s.Save(context.Background(), "", "", "", "", nil, nil, nil); err == nil {
		t.Fatal("expected error for missing brandId")
	}
}
