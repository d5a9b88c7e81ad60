package services

import (
	"testing"
	"time"

	"insurance-service/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestBlockClock_At(t *testing.T) {
	clock := NewBlockClock(config.ChainConfig{EpochUnix: 1000, BlockPeriodSecs: 300})

	assert.Equal(t, uint64(0), clock.At(time.Unix(1000, 0)))
	assert.Equal(t, uint64(0), clock.At(time.Unix(1299, 0)))
	assert.Equal(t, uint64(1), clock.At(time.Unix(1300, 0)))
	assert.Equal(t, uint64(10), clock.At(time.Unix(4000, 0)))
}

func TestBlockClock_BeforeEpochClampsToZero(t *testing.T) {
	clock := NewBlockClock(config.ChainConfig{EpochUnix: 1000, BlockPeriodSecs: 300})

	assert.Equal(t, uint64(0), clock.At(time.Unix(500, 0)))
}

func TestBlockClock_ZeroPeriodDefaultsToOneSecond(t *testing.T) {
	clock := NewBlockClock(config.ChainConfig{EpochUnix: 0, BlockPeriodSecs: 0})

	assert.Equal(t, uint64(42), clock.At(time.Unix(42, 0)))
}
