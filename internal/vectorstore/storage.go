// Package vectorstore holds the similarity indexes the retrieval path searches.
package vectorstore

// Persistent is implemented by indexes whose built state lives in a local
// file. The indexer saves it next to the embeddings and the query path loads
// it before searching.
type Persistent interface {
	Save(path string) error
	Load(path string) error
}
