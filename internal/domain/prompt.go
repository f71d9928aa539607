package domain

// Prompt is one request to the text-generation model.
type Prompt struct {
	System      string
	User        string
	Temperature float32
	// JSON asks the model for a JSON-only response.
	JSON bool
}
