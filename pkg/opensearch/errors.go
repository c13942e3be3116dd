package opensearch

import "errors"

var (
	ErrConnectionFailed  = errors.New("opensearch connection failed")
	ErrHealthcheckFailed = errors.New("opensearch healthcheck failed")
	ErrInvalidIndexer    = errors.New("opensearch indexer needs a client and an index")
	ErrIndexFailed       = errors.New("opensearch index request failed")
)
