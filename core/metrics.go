package core

import "github.com/ethereum/go-ethereum/metrics"

var (
	fulfilledMeter = metrics.NewRegisteredMeter("inbox/fulfill/accepted", nil)
	rejectedMeter  = metrics.NewRegisteredMeter("inbox/fulfill/rejected", nil)
	replayMeter    = metrics.NewRegisteredMeter("inbox/fulfill/replayed", nil)
	precheckMeter  = metrics.NewRegisteredMeter("inbox/precheck", nil)
	fulfillTimer   = metrics.NewRegisteredTimer("inbox/fulfill/time", nil)

	invokeCounter   = metrics.NewRegisteredCounter("inbox/calls/invoked", nil)
	transferCounter = metrics.NewRegisteredCounter("inbox/calls/transfers", nil)

	// pooledGauge tracks the value pooled by the latest funded fulfillment.
	pooledGauge = metrics.NewRegisteredGauge("inbox/escrow/pooled", nil)
)
