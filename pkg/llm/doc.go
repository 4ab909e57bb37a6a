// Package llm is the language-model collaborator: it turns a rendered
// prompt, system instructions plus one user turn, into a single text
// completion.
//
// A Client is built from an explicit Config value and delegates to a
// Provider backed by an official SDK. No retries are performed; transport
// and authentication failures are returned to the caller unchanged.
//
// Usage:
//
//	client, _ := llm.New(llm.Config{
//		Provider: llm.ProviderOpenAI,
//		APIKey:   key,
//		BaseURL:  "https://api.llama-api.com",
//		Model:    "llama3-70b",
//	}, logger)
//	text, _ := client.Complete(ctx, prompt.Prompt{System: system, User: question})
package llm
