package log

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel(""))
	assert.Equal(t, logrus.DebugLevel, ParseLevel("loud"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("INFO"))
}

func TestErrorWithTraceID(t *testing.T) {
	logrus.StandardLogger().SetOutput(io.Discard)

	assert.Equal(t, "req-42", ErrorWithTraceID(Fields{RequestIDKey: "req-42"}, "boom"))

	generated := ErrorWithTraceID(Fields{RequestIDKey: "unknown"}, "boom")
	assert.Len(t, generated, 36)
	assert.NotEqual(t, generated, ErrorWithTraceID(nil, "boom"))
}
