package ports

import "context"

// Document is a schemaless record as stored by the document store.
type Document map[string]any

// DocumentStore is the generic port over the portal's remote document
// database. The wider portal's collections (universities, programs, syllabus,
// resources, questions, forum) live behind this interface; this core only
// consumes it through the profile repository.
type DocumentStore interface {
	Insert(ctx context.Context, collection string, doc Document) (Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Update(ctx context.Context, collection, id string, patch Document) (Document, error)
	Delete(ctx context.Context, collection, id string) error

	// List returns documents matching a filter predicate expressed as a
	// JMESPath expression evaluated against each document. An empty filter
	// matches everything.
	List(ctx context.Context, collection, filter string) ([]Document, error)
}
