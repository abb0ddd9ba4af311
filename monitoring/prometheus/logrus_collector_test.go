package prometheus

import (
	"testing"

	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
)

func TestLogrusCollector_CountsByLevelAndPrefix(t *testing.T) {
	hook := NewLogrusCollector()

	entry := &logrus.Entry{Level: logrus.WarnLevel, Data: logrus.Fields{"prefix": "forkchoice"}}
	before := testutil.ToFloat64(logCounterVec.WithLabelValues("warning", "forkchoice"))
	require.NoError(t, hook.Fire(entry))
	require.NoError(t, hook.Fire(entry))
	after := testutil.ToFloat64(logCounterVec.WithLabelValues("warning", "forkchoice"))
	assert.Equal(t, 2.0, after-before)
}

func TestLogrusCollector_DefaultPrefix(t *testing.T) {
	hook := NewLogrusCollector()

	entry := &logrus.Entry{Level: logrus.ErrorLevel, Data: logrus.Fields{}}
	before := testutil.ToFloat64(logCounterVec.WithLabelValues("error", defaultPrefix))
	require.NoError(t, hook.Fire(entry))
	after := testutil.ToFloat64(logCounterVec.WithLabelValues("error", defaultPrefix))
	assert.Equal(t, 1.0, after-before)
}

func TestLogrusCollector_Levels(t *testing.T) {
	hook := NewLogrusCollector()
	assert.Equal(t, 3, len(hook.Levels()))
}
