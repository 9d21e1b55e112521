package metrics

import "expvar"

var (
	InstructionsAccepted = expvar.NewInt("instructions_accepted")
	InstructionsRejected = expvar.NewInt("instructions_rejected")
	PositionsServed      = expvar.NewInt("positions_served")
	ExecuteRateLimited   = expvar.NewInt("execute_rate_limited")
)
