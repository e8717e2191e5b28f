package vision

import "context"

// Request is one transcription call: an encoded page image plus the prompt
// steering classification and extraction.
type Request struct {
	ImageBase64 string // base64-encoded PNG bytes
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Transcriber is the external OCR/vision capability: given an image and a
// prompt, return a structured text transcript. Synchronous, fallible,
// stateless.
type Transcriber interface {
	Transcribe(ctx context.Context, req Request) (string, error)
}
