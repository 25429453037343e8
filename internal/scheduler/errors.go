package scheduler

import "errors"

var (
	// ErrNoStart means the graph does not have exactly one start node.
	ErrNoStart = errors.New("graph must have exactly one start node")
	// ErrAlreadyScheduled means the graph already carries schedule edges.
	ErrAlreadyScheduled = errors.New("graph is already scheduled")
	// ErrCyclicControl means the partial order could not make progress.
	ErrCyclicControl = errors.New("control flow is cyclic")
	// ErrMissingSequence means a fixed node has no sequence number.
	ErrMissingSequence = errors.New("missing sequence number")
	// ErrStuck means a floating node has no legal anchor.
	ErrStuck = errors.New("stuck")
	// ErrMissingAnchor means an anchor chain does not reach a fixed node.
	ErrMissingAnchor = errors.New("missing anchor")
	// ErrMissingSchedule means a node assumed scheduled has no schedule edge.
	ErrMissingSchedule = errors.New("missing schedule edge")
	// ErrBlockOrder means the nodes of a basic block cannot be put in one order.
	ErrBlockOrder = errors.New("cannot order basic block")
)
