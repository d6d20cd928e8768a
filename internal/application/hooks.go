package application

import "time"

// BoardHooks receives events about graph mutations.
type BoardHooks interface {
	OnNodesAdded(kind NodeKind, count int)
	OnNodesRemoved(count int)
	OnEdgesAdded(count int)
	OnEdgesRemoved(count int)
}

// GeneratorHooks receives events from bulk generation runs.
type GeneratorHooks interface {
	OnChunk(size int, duration time.Duration)
	// OnRunFinished is called with "completed", "cancelled" or "failed".
	OnRunFinished(outcome string, done int)
}

// PersistHooks receives the outcome of every durable write.
type PersistHooks interface {
	OnPersist(bytes int, duration time.Duration, err error)
}

// NoopBoardHooks is a no-op implementation of BoardHooks.
type NoopBoardHooks struct{}

func (NoopBoardHooks) OnNodesAdded(NodeKind, int) {}
func (NoopBoardHooks) OnNodesRemoved(int)         {}
func (NoopBoardHooks) OnEdgesAdded(int)           {}
func (NoopBoardHooks) OnEdgesRemoved(int)         {}

// NoopGeneratorHooks is a no-op implementation of GeneratorHooks.
type NoopGeneratorHooks struct{}

func (NoopGeneratorHooks) OnChunk(int, time.Duration)  {}
func (NoopGeneratorHooks) OnRunFinished(string, int) {}

// NoopPersistHooks is a no-op implementation of PersistHooks.
type NoopPersistHooks struct{}

func (NoopPersistHooks) OnPersist(int, time.Duration, error) {}
