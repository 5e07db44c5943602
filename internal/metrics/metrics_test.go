package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordFeedFetch(t *testing.T) {
	before := testutil.ToFloat64(feedFetchTotal.WithLabelValues("channel", "status_4xx"))
	RecordFeedFetch("channel", "status_4xx", 20*time.Millisecond)
	after := testutil.ToFloat64(feedFetchTotal.WithLabelValues("channel", "status_4xx"))
	assert.Equal(t, before+1, after)
}

func TestRecordFeedParse(t *testing.T) {
	RecordFeedParse("trending", 12, nil)
	assert.Equal(t, float64(12), testutil.ToFloat64(feedEntries.WithLabelValues("trending")))

	before := testutil.ToFloat64(feedParseTotal.WithLabelValues("trending", "malformed"))
	RecordFeedParse("trending", 0, errors.New("bad xml"))
	assert.Equal(t, before+1, testutil.ToFloat64(feedParseTotal.WithLabelValues("trending", "malformed")))
	// A failed parse leaves the last good record count in place.
	assert.Equal(t, float64(12), testutil.ToFloat64(feedEntries.WithLabelValues("trending")))
}

func TestRecordHTTPRequestUnmatched(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("unmatched", "404"))
	RecordHTTPRequest("", 404)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("unmatched", "404")))
}
