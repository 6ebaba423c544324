package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestEventFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&EventFormatter{SystemName: "test-system"})

	logger.WithFields(logrus.Fields{
		"event":  "TASK_CREATED",
		"taskID": "t1",
		"actor":  "u1",
	}).Info("task created")

	line := buf.String()
	assert.Contains(t, line, "Event Source: test-system")
	assert.Contains(t, line, "Event Type: INFO")
	assert.Contains(t, line, "Event ID: TASK_CREATED")
	assert.Contains(t, line, "Message: task created, actor=u1, taskID=t1")
	assert.NotContains(t, line, "event=")
}

func TestNewLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  logrus.Level
	}{
		{name: "debug", level: "debug", want: logrus.DebugLevel},
		{name: "warn", level: "warn", want: logrus.WarnLevel},
		{name: "invalid falls back to info", level: "loud", want: logrus.InfoLevel},
		{name: "empty falls back to info", level: "", want: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(Options{Level: tt.level})
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}
