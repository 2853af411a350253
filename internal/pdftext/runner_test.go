package pdftext

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerMissingBinaryLogsThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := execRunner{logger: logger}

	_, _, err := r.Run(context.Background(), "definitely-not-a-real-binary-1b2c3d")
	require.Error(t, err)

	assert.Contains(t, buf.String(), "pdftext.exec.failed")
	assert.Contains(t, buf.String(), "definitely-not-a-real-binary-1b2c3d")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	long := strings.Repeat("x", 20)
	got := truncate(long, 10)
	assert.Equal(t, strings.Repeat("x", 10)+"...(truncated)", got)
}
