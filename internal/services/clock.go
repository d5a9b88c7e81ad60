package services

import (
	"time"

	"insurance-service/internal/config"
)

// BlockClock maps wall-clock time onto the monotonic block index the engine
// orders everything by. The engine itself never reads the wall clock; every
// entry point receives the index from here, so two calls landing in the same
// period see identical oracle data.
type BlockClock struct {
	epochUnix  int64
	periodSecs int64
}

func NewBlockClock(cfg config.ChainConfig) BlockClock {
	period := cfg.BlockPeriodSecs
	if period <= 0 {
		period = 1
	}
	return BlockClock{epochUnix: cfg.EpochUnix, periodSecs: period}
}

// Now returns the current block index.
func (c BlockClock) Now() uint64 {
	return c.At(time.Now())
}

// At returns the block index containing t. Times before the epoch map to
// index 0.
func (c BlockClock) At(t time.Time) uint64 {
	elapsed := t.Unix() - c.epochUnix
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / c.periodSecs)
}
