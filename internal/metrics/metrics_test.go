package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecords(t *testing.T) {
	c := NewCollector("")
	c.RecordFrame(16 * time.Millisecond)
	c.RecordFrame(17 * time.Millisecond)
	c.RecordTextureLoad("lq", nil)
	c.RecordTextureLoad("lq", errors.New("missing"))
	c.RecordMarkerBuild(nil)
	c.RecordMarkerClick()
	c.RecordTransition("near")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.framesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.textureLoads.WithLabelValues("lq", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.textureLoads.WithLabelValues("lq", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.markerBuilds.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.markerClicks))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues("near")))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.RecordFrame(time.Millisecond)
	c.RecordTextureLoad("hq", nil)
	c.RecordMarkerBuild(errors.New("x"))
	c.RecordMarkerClick()
	c.RecordTransition("far")
	assert.Nil(t, c.Registry())
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector("terra")
	c.RecordMarkerClick()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "terra_markers_clicks_total 1"))
}
