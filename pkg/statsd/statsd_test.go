package statsd

import (
	"errors"
	"testing"
	"time"

	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilReporter(t *testing.T) {
	var sd *Reporter

	m := sd.Timing("search.find", time.Second)
	assert.Nil(t, m)

	// nil metrics absorb every call
	m.Tag("object", "Account").Success().Failure(errors.New("boom")).Publish()
	assert.NoError(t, sd.Close())
}

func TestDisabledReporter(t *testing.T) {
	sd, err := Init(log.NewNoop(), Config{Enabled: false, SamplingRate: 1})
	require.NoError(t, err)

	m := sd.Incr("search.find")
	require.NotNil(t, m)
	assert.NoError(t, m.publishFunc("search.find", nil, 1))
	assert.NoError(t, sd.Close())
}

func TestMetricTags(t *testing.T) {
	t.Run("influx format appends sorted tags to the name", func(t *testing.T) {
		m := &Metric{name: "search.find"}
		m.Tag("success", "true").Tag("backend", "postgres")
		assert.Equal(t, "search.find,backend=postgres,success=true", m.processTagsInflux(m.name))
	})

	t.Run("datadog format renders key:value pairs", func(t *testing.T) {
		m := &Metric{name: "search.find"}
		m.Tag("success", "false").Tag("backend", "elasticsearch")
		assert.Equal(t, []string{"backend:elasticsearch", "success:false"}, m.processTagsDatadog())
	})

	t.Run("failure tags success false", func(t *testing.T) {
		m := &Metric{name: "search.find", logger: log.NewNoop()}
		m.Failure(errors.New("malformed query"))
		assert.Equal(t, "false", m.tags["success"])
	})
}
