// Package workflow answers questions about the retail dataset by driving a
// fixed graph of model-backed steps.
//
// Graph:
//
//	__start__ -> check_if_can_answer_question
//	check_if_can_answer_question -> write_query     (can_answer)
//	check_if_can_answer_question -> cannot_answer   (!can_answer)
//	write_query -> execute_query -> write_answer -> __end__
//	cannot_answer -> __end__
//
// Invariants:
//   - A session moves through Initial, Routed, Queried, Executed and Answered;
//     each step accepts only the stage it needs.
//   - Plan and CanAnswer are set once, by the feasibility check, before
//     anything else.
//   - A refused question never produces a query or a query result.
//   - Model transport failures abort the run with a *StepError. Malformed
//     feasibility output and query failures do not.
//
// Usage:
//
//	runner, _ := workflow.NewRunner(workflow.Config{
//		Model:       client,
//		Store:       store,
//		Description: dataset.DefaultDescription,
//		Logger:      logger,
//	})
//	answer, _ := runner.Ask(ctx, "What is the average amount spent by customers in California?")
package workflow
