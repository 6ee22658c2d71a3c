// Package game implements heads-up No-Limit Texas Hold'em between a human
// and an AI opponent.
//
// HandState is the betting state machine for a single hand: blinds, pot,
// stacks, street contributions, turn order, legal-action checks, street
// changes and showdown settlement. It has no locking and no timing.
//
// Engine owns the game across hands. It alternates the button, replenishes
// busted stacks, accepts the human's actions synchronously and runs the AI's
// turns and street changes as delayed steps on a Scheduler, one at a time in
// the order they were scheduled.
//
// # Basic Usage
//
//	e := game.NewEngine(game.DefaultConfig(), policy, game.WithLogger(logger))
//	go e.Run(ctx)
//	e.Subscribe(game.FuncSubscriber(func(ev game.GameEvent) {
//	    render(ev.State())
//	}))
//	_ = e.StartHand()
//	_ = e.SubmitAction(game.Raise, 60)
//
// # Deterministic Testing
//
// Inject the random source and, for scripted deals, the deck:
//
//	rng := randutil.New(42)
//	h := game.NewHand(rng, game.Human, 10, 20,
//	    game.WithDeck(deck.NewStackedDeck(rng, deck.MustParseCards("AsAhKsKh")...)))
//
// Engine delays are measured on a quartz.Clock, so tests can use a mock
// clock or zero delays together with WaitIdle.
package game
