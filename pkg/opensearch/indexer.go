package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Indexer writes JSON documents into one index, keyed by document ID so
// re-indexing the same ID overwrites.
type Indexer struct {
	client *opensearch.Client
	index  string
}

func NewIndexer(client *opensearch.Client, index string) (*Indexer, error) {
	if client == nil || index == "" {
		return nil, ErrInvalidIndexer
	}
	return &Indexer{client: client, index: index}, nil
}

func (i *Indexer) Index(ctx context.Context, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: marshal: %w", ErrIndexFailed, err)
	}

	req := opensearchapi.IndexRequest{
		Index:      i.index,
		DocumentID: id,
		Body:       bytes.NewReader(body),
	}
	resp, err := req.Do(ctx, i.client)
	if err != nil {
		return errors.Join(ErrIndexFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.Join(ErrIndexFailed, fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}
	return nil
}
