package generator

// Scheduler defers a unit of work to a later turn of the host's loop. The
// generator never runs two chunks in the same turn.
type Scheduler interface {
	Defer(fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface
type SchedulerFunc func(fn func())

// Defer calls f(fn)
func (f SchedulerFunc) Defer(fn func()) { f(fn) }

// Queue is a FIFO Scheduler driven explicitly by its owner, one task per
// RunNext. It is what command-line runs and tests use.
//
// Queue is not safe for concurrent use.
type Queue struct {
	tasks []func()
}

// Defer appends fn to the queue
func (q *Queue) Defer(fn func()) {
	q.tasks = append(q.tasks, fn)
}

// Len returns the number of pending tasks
func (q *Queue) Len() int { return len(q.tasks) }

// RunNext runs the oldest pending task. It returns false when the queue is
// empty.
func (q *Queue) RunNext() bool {
	if len(q.tasks) == 0 {
		return false
	}
	fn := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	fn()
	return true
}

// Drain runs tasks until the queue is empty and returns how many ran
func (q *Queue) Drain() int {
	n := 0
	for q.RunNext() {
		n++
	}
	return n
}
