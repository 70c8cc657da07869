package swagger

// swagger:route DELETE /timers Timers DeleteTimers
// Resets all timers.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   204: TimersDeleteResponseNoContent

// swagger:response TimersDeleteResponseNoContent
type TimersDeleteResponseNoContent struct {
	//
}

// swagger:parameters DeleteTimers
type TimersDeleteParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
