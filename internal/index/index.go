package index

// DocumentIndex defines the interface for document indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type DocumentIndex interface {
	ReplaceAll(buildID string, docs []Document) error
	Get(path string) (*Document, error)
	Count() (int, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies DocumentIndex at compile time.
var _ DocumentIndex = (*DB)(nil)
