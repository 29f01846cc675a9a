package launch

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/require"
)

// catchFailure runs fn and returns the error it panicked with. It fails the
// test if fn returns normally.
func catchFailure(t *testing.T, fn func()) error {
	t.Helper()
	err := exceptions.TryCatch[error](fn)
	require.Error(t, err, "expected a fatal failure, got none")
	return err
}
