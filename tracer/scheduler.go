package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling
// algorithms. Schedulers split a frame into horizontal blocks and assign a
// block height to each tracer in the pool.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign to the pool
	// of tracers, optionally using feedback collected from previous
	// frames. Returns the block height assignment for each tracer in
	// the input list; assignments always sum to frameH.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// The naive scheduler distributes rows proportionally to each tracer's
// static speed estimate.
type naiveScheduler struct{}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	return scheduleBySpeed(tracers, frameH)
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same and uses the per-block render
// times of the previous frame to rebalance assignments.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance.
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split frame into blocks of variable height and assign to the pool of
// tracers using feedback collected from previous frames.
//
// The first call (or a change in the tracer pool) falls back to static
// speed estimates. Subsequent calls estimate the workload share of tracer w
// as (blockH_w / time_w) / Σ(blockH_i / time_i).
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = scheduleBySpeed(tracers, frameH)
		return sch.blockAssignment
	}

	var total float64
	for _, tr := range tracers {
		stats := tr.Stats()
		if stats.BlockTime <= 0 || stats.BlockH == 0 {
			// No usable feedback yet
			sch.blockAssignment = scheduleBySpeed(tracers, frameH)
			return sch.blockAssignment
		}
		total += float64(stats.BlockH) / float64(stats.BlockTime)
	}

	scaler := float64(frameH) / total
	var scheduledRows uint32
	for idx, tr := range tracers {
		stats := tr.Stats()
		sch.blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(float64(stats.BlockH)/float64(stats.BlockTime)*scaler)))
		scheduledRows += sch.blockAssignment[idx]
	}

	balanceAssignment(sch.blockAssignment, frameH, scheduledRows)

	return sch.blockAssignment
}

// Distribute frame rows proportionally to static tracer speed estimates.
func scheduleBySpeed(tracers []Tracer, frameH uint32) []uint32 {
	assignment := make([]uint32, len(tracers))

	var total float64
	for _, tr := range tracers {
		total += float64(tr.Speed())
	}

	scaler := float64(frameH) / total
	var scheduledRows uint32
	for idx, tr := range tracers {
		assignment[idx] = uint32(math.Max(1.0, math.Floor(float64(tr.Speed())*scaler)))
		scheduledRows += assignment[idx]
	}
	balanceAssignment(assignment, frameH, scheduledRows)

	return assignment
}

// Adjust an assignment so its rows add up to exactly frameH. Missing rows go
// to the first tracer. The minimum-one-row policy can overcommit when the
// pool holds more tracers than the frame has rows; the surplus is trimmed
// off the back of the pool, leaving zero-height assignments that the
// renderer skips.
func balanceAssignment(assignment []uint32, frameH, scheduledRows uint32) {
	if scheduledRows <= frameH {
		assignment[0] += frameH - scheduledRows
		return
	}

	surplus := scheduledRows - frameH
	for idx := len(assignment) - 1; idx >= 0 && surplus > 0; idx-- {
		trim := assignment[idx]
		if trim > surplus {
			trim = surplus
		}
		assignment[idx] -= trim
		surplus -= trim
	}
}
