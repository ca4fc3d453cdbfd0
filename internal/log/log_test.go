package log

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	require.NoError(t, Init(true))
	Debugw("debug enabled", "key", "value")
	Sync()

	require.NoError(t, Init(false))
	Infow("production logger", "key", "value")
}
