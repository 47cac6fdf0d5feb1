package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSearch(t *testing.T) {
	hit := testutil.ToFloat64(searchQueries.WithLabelValues("hit"))
	miss := testutil.ToFloat64(searchQueries.WithLabelValues("miss"))
	short := testutil.ToFloat64(searchQueries.WithLabelValues("short"))

	ObserveSearch(2*time.Millisecond, 3, false)
	ObserveSearch(time.Millisecond, 0, false)
	ObserveSearch(0, 0, true)

	if d := testutil.ToFloat64(searchQueries.WithLabelValues("hit")) - hit; d != 1 {
		t.Fatalf("hit delta = %v", d)
	}
	if d := testutil.ToFloat64(searchQueries.WithLabelValues("miss")) - miss; d != 1 {
		t.Fatalf("miss delta = %v", d)
	}
	if d := testutil.ToFloat64(searchQueries.WithLabelValues("short")) - short; d != 1 {
		t.Fatalf("short delta = %v", d)
	}
}

func TestObserveIndexAndReply(t *testing.T) {
	built := testutil.ToFloat64(indexBuilds.WithLabelValues("built"))
	reused := testutil.ToFloat64(indexBuilds.WithLabelValues("reused"))

	ObserveIndex(10, false)
	ObserveIndex(12, true)

	if d := testutil.ToFloat64(indexBuilds.WithLabelValues("built")) - built; d != 1 {
		t.Fatalf("built delta = %v", d)
	}
	if d := testutil.ToFloat64(indexBuilds.WithLabelValues("reused")) - reused; d != 1 {
		t.Fatalf("reused delta = %v", d)
	}
	if got := testutil.ToFloat64(indexedVerses); got != 12 {
		t.Fatalf("indexed verses = %v", got)
	}

	blocked := testutil.ToFloat64(chatReplies.WithLabelValues("blocked"))
	ObserveReply("blocked")
	if d := testutil.ToFloat64(chatReplies.WithLabelValues("blocked")) - blocked; d != 1 {
		t.Fatalf("blocked delta = %v", d)
	}
}
