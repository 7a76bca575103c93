package stumpage

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestGenerateID(t *testing.T) {
	rec := Record{
		Source:  "GA",
		Year:    2019,
		Region:  "Statewide",
		County:  "Appling",
		Species: "pine",
		Product: "sawtimber",
	}

	t.Run("deterministic across runs", func(t *testing.T) {
		assert.Equal(t, rec.GenerateID(), rec.GenerateID())
	})

	t.Run("prefixed with lowercase source", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(rec.GenerateID(), "ga-"))
	})

	t.Run("identifying fields change the ID", func(t *testing.T) {
		other := rec
		other.County = "Bacon"
		assert.NotEqual(t, rec.GenerateID(), other.GenerateID())

		other = rec
		other.Quarter = 2
		assert.NotEqual(t, rec.GenerateID(), other.GenerateID())
	})

	t.Run("prices do not affect the ID", func(t *testing.T) {
		other := rec
		other.PriceAvg = Float(31.50)
		assert.Equal(t, rec.GenerateID(), other.GenerateID())
	})
}

func TestSetClock(t *testing.T) {
	frozen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	assert.Equal(t, frozen, Now())
}
