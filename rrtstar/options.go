package rrtstar

const (
	// defaultGamma is the RRT* near-radius scale constant.
	defaultGamma = 2.5

	// defaultGoalSampleFreq is the probability of goal-biased sampling per iteration.
	defaultGoalSampleFreq = 0.1

	// defaultDoBranchAndBound enables cost-based pruning of new vertices.
	defaultDoBranchAndBound = true

	// neighborsBeforeParallelization is the vertex count above which the
	// spatial index's brute-force scan fans out across a worker pool.
	neighborsBeforeParallelization = 1000
)

// Options configures a Planner. It is set once, at NewPlanner, and is
// immutable for the lifetime of the instance, consistent with the
// single-threaded, no-internal-locking concurrency model: nothing in the
// kernel reads Options concurrently with a mutation of it.
type Options struct {
	// Gamma scales the RRT* near-radius r = Gamma * (log(n+1)/(n+1))^(1/N).
	Gamma float64 `json:"gamma"`

	// GoalSampleFreq is the probability in [0,1] of drawing from the goal
	// region instead of free space on a given iteration.
	GoalSampleFreq float64 `json:"goal_sample_freq"`

	// DoBranchAndBound enables skipping inserts whose candidate cost already
	// exceeds the current best goal cost.
	DoBranchAndBound bool `json:"do_branch_and_bound"`
}

// DefaultOptions returns the documented defaults: Gamma=2.5,
// GoalSampleFreq=0.1, DoBranchAndBound=true.
func DefaultOptions() *Options {
	return &Options{
		Gamma:            defaultGamma,
		GoalSampleFreq:   defaultGoalSampleFreq,
		DoBranchAndBound: defaultDoBranchAndBound,
	}
}
