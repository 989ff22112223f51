package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery(t *testing.T) {
	before := testutil.CollectAndCount(dbQueryDuration)

	RecordDBQuery("list", "feedback", 5*time.Millisecond)
	RecordDBQuery("update_plan", "users", 2*time.Millisecond)
	RecordDBQuery("update_plan", "users", 3*time.Millisecond)

	after := testutil.CollectAndCount(dbQueryDuration)
	if got, want := after-before, 2; got != want {
		t.Errorf("new dbQueryDuration series = %d, want %d", got, want)
	}
}
