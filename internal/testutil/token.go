package testutil

// FixedTokenGenerator returns the same run token every time.
//
// Saved matches are tagged with a run token; production uses UUIDv7. Tests
// use a fixed token so stored rows and golden output are byte-identical
// across runs.
//
// Thread-safety: FixedTokenGenerator is stateless and safe for concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a fixed run token generator.
//
// If token is empty, Generate() returns "test-run-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed token.
//
// Implements store.TokenGenerator.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
