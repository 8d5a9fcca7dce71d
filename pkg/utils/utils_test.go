package utils_test

import (
	"testing"
	"time"

	"ArdenGolang/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULIDFromTimestamp_SortsWithinMillisecond(t *testing.T) {
	u := utils.New()
	now := time.Now()

	prev := ""
	for i := 0; i < 100; i++ {
		id, err := u.NewULIDFromTimestamp(now)
		require.NoError(t, err)
		assert.Len(t, id, 26)
		assert.Greater(t, id, prev)
		prev = id
	}
}
