/*
Package events provides an in-memory event broker for chartsync's
reconciliation lifecycle.

The engine publishes an event when a run starts and another when it
finishes (deployed, deleted, unchanged, or failed). Interested parties
subscribe for loose coupling: the watch and serve modes log events as
an audit trail without the engine knowing who is listening.

# Delivery Model

Publishing is non-blocking from the engine's point of view: events
enter a buffered channel (100 events) drained by a broadcast loop, and
each subscriber has its own buffered channel (50 events). A subscriber
that falls behind loses events rather than stalling the broker; the
journal, not the event stream, is the durable record of outcomes.

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	go func() {
		for ev := range sub {
			log.Info().Str("type", string(ev.Type)).Str("release", ev.Release).Msg("event")
		}
	}()

# Event Types

	reconcile.started  - a reconciliation run began
	release.deployed   - an install-or-upgrade command succeeded
	release.deleted    - a delete command succeeded (or was already absent)
	release.unchanged  - desired and observed state already converged
	reconcile.failed   - the run aborted with an error

Completion events carry the full Outcome; failure events carry the
error text.
*/
package events
