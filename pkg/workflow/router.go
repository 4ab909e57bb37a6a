package workflow

// Node names a position in the graph
type Node string

// Graph nodes
const (
	NodeStart            Node = "__start__"
	NodeCheckIfCanAnswer Node = "check_if_can_answer_question"
	NodeWriteQuery       Node = "write_query"
	NodeExecuteQuery     Node = "execute_query"
	NodeWriteAnswer      Node = "write_answer"
	NodeCannotAnswer     Node = "cannot_answer"
	NodeEnd              Node = "__end__"
)

// Route selects the node after the feasibility check
func Route(s Routed) Node {
	if s.CanAnswer {
		return NodeWriteQuery
	}
	return NodeCannotAnswer
}

// RouteExecution selects the node after query execution. Failed executions
// go to cannot_answer only when refuseOnError is set.
func RouteExecution(s Executed, refuseOnError bool) Node {
	if refuseOnError && s.ExecErr != nil {
		return NodeCannotAnswer
	}
	return NodeWriteAnswer
}
