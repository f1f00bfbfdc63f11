package dependo

// entry is the registration record of one token. strategies[0] is the most
// recently registered strategy.
type entry struct {
	singleton  bool
	strategies []Strategy
}

func (e *entry) head() Strategy {
	return e.strategies[0]
}

func (e *entry) push(s Strategy, singleton bool) {
	e.strategies = append([]Strategy{s}, e.strategies...)
	e.singleton = singleton
}

// call tracks a singleton evaluation in flight. Later resolvers of the same
// token wait on done instead of evaluating again.
type call struct {
	done      chan struct{}
	value     any
	err       error
	abandoned bool
}
