package workflow

// Session is the state of one question. Its concrete type records how far
// the question has progressed.
type Session interface {
	// Snapshot flattens the session into its populated fields
	Snapshot() Snapshot
	isSession()
}

// Initial holds only the caller's question
type Initial struct {
	Question string
}

// Routed is a session after the feasibility check
type Routed struct {
	Initial
	Plan      string
	CanAnswer bool
}

// Queried is a session with a generated query
type Queried struct {
	Routed
	SQLQuery string
}

// Executed is a session after the query ran. When execution failed, ExecErr
// is set and SQLResult holds its text.
type Executed struct {
	Queried
	SQLResult string
	ExecErr   error
}

// Answered is a terminal session. Prior is the Routed or Executed session
// the answer was written from.
type Answered struct {
	Prior  Session
	Answer string
}

// Snapshot is the flat view of a session. Unset fields are nil.
type Snapshot struct {
	Question  string  `json:"question"`
	Plan      *string `json:"plan,omitempty"`
	CanAnswer *bool   `json:"can_answer,omitempty"`
	SQLQuery  *string `json:"sql_query,omitempty"`
	SQLResult *string `json:"sql_result,omitempty"`
	Answer    *string `json:"answer,omitempty"`
}

func (Initial) isSession()  {}
func (Routed) isSession()   {}
func (Queried) isSession()  {}
func (Executed) isSession() {}
func (Answered) isSession() {}

// Snapshot implements Session
func (s Initial) Snapshot() Snapshot {
	return Snapshot{Question: s.Question}
}

// Snapshot implements Session
func (s Routed) Snapshot() Snapshot {
	snap := s.Initial.Snapshot()
	plan, canAnswer := s.Plan, s.CanAnswer
	snap.Plan = &plan
	snap.CanAnswer = &canAnswer
	return snap
}

// Snapshot implements Session
func (s Queried) Snapshot() Snapshot {
	snap := s.Routed.Snapshot()
	query := s.SQLQuery
	snap.SQLQuery = &query
	return snap
}

// Snapshot implements Session
func (s Executed) Snapshot() Snapshot {
	snap := s.Queried.Snapshot()
	result := s.SQLResult
	snap.SQLResult = &result
	return snap
}

// Snapshot implements Session
func (s Answered) Snapshot() Snapshot {
	var snap Snapshot
	if s.Prior != nil {
		snap = s.Prior.Snapshot()
	}
	answer := s.Answer
	snap.Answer = &answer
	return snap
}
