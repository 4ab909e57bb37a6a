package prompt

// Input variable names shared by the templates.
const (
	VarDataDescription = "data_description"
	VarQuestion        = "question"
	VarPlan            = "plan"
	VarSQLQuery        = "sql_query"
	VarSQLResult       = "sql_result"
	VarProblem         = "problem"
)

const preamble = `You are a database reading bot that can answer users' questions using information from a database.`

const questionTurn = `Question: {{.question}}`

// Feasibility asks the model whether the data can answer the question and
// expects a JSON object with "reasoning" and "can_answer".
var Feasibility = NewChat("feasibility", preamble+`

{{.data_description}}

Given the user's question, decide whether the question can be answered using the information in the database.

Return a JSON with two keys, 'reasoning' and 'can_answer', and no preamble or explanation.
Return one of the following JSON:

{"reasoning": "I can find the average total spent by customers in California by averaging the Total_Spent column in the Retail table filtered by State = 'CA'", "can_answer":true}
{"reasoning": "I can find the total quantity of products sold in the Electronics category using the Quantity column in the Retail table filtered by Category = 'Electronics'", "can_answer":true}
{"reasoning": "I can't answer how many customers purchased products last year because the Retail table doesn't contain a year column", "can_answer":false}`, questionTurn, VarDataDescription, VarQuestion)

// WriteQuery asks for a bare SQL query following the plan.
var WriteQuery = NewChat("write_query", preamble+`

{{.data_description}}

In the previous step, you have prepared the following plan: {{.plan}}

Return an SQL query with no preamble or explanation. Don't include any markdown characters or quotation marks around the query.`, questionTurn, VarDataDescription, VarPlan, VarQuestion)

// WriteAnswer asks for a natural-language answer built from the query result.
var WriteAnswer = NewChat("write_answer", preamble+`

In the previous step, you have planned the query as follows: {{.plan}},
generated the query {{.sql_query}}
and retrieved the following data:
{{.sql_result}}

Return a text answering the user's question using the provided data.`, questionTurn, VarPlan, VarSQLQuery, VarSQLResult, VarQuestion)

// CannotAnswer asks for an apology explaining why the question cannot be answered.
var CannotAnswer = NewChat("cannot_answer", preamble+`

You cannot answer the user's questions because of the following problem: {{.problem}}.

Explain the issue to the user and apologize for the inconvenience.`, questionTurn, VarProblem, VarQuestion)
