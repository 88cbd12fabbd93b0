package ir

// Version constants for the tree encoding and the renderer.
const (
	// TreeVersion is the version of the YAML/JSON tree encoding.
	TreeVersion = "1"

	// RendererVersion is folded into catalog fingerprints so cached output
	// is invalidated when generated text changes shape.
	RendererVersion = "0.3.0"
)
