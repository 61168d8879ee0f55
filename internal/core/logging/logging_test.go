package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	require.NoError(t, Configure(l, &buf, "info", "json"))

	l.WithField("file", "a.csv").Info("imported")
	l.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "imported", entry["msg"])
	assert.Equal(t, "a.csv", entry["file"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestConfigure_DefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	require.NoError(t, Configure(l, &buf, "", ""))

	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	l.Info("quiet")
	assert.Empty(t, buf.String())
}

func TestConfigure_Invalid(t *testing.T) {
	l := logrus.New()
	assert.Error(t, Configure(l, &bytes.Buffer{}, "loud", "text"))
	assert.Error(t, Configure(l, &bytes.Buffer{}, "info", "xml"))
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.Equal(t, logrus.PanicLevel, l.GetLevel())
}
