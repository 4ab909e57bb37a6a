// Package prompt holds the fixed prompt templates used by the question
// answering workflow.
//
// Each template is a pure function of its declared inputs: rendering the
// same values always yields the same system and user text, and omitting a
// declared input returns ErrMissingInput.
package prompt
