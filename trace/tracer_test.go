// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledTracerIsNoop(t *testing.T) {
	require := require.New(t)

	tracer, err := New(NewDefaultConfig())
	require.NoError(err)

	_, span := tracer.Start(context.Background(), "Test.Span")
	require.False(span.IsRecording())
	span.End()
	require.NoError(tracer.Close())
}

func TestEnabledTracerRecords(t *testing.T) {
	require := require.New(t)

	config := NewDefaultConfig()
	config.Enabled = true
	tracer, err := New(config)
	require.NoError(err)

	_, span := tracer.Start(context.Background(), "Test.Span")
	require.True(span.IsRecording())
	span.End()
}
