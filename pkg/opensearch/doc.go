// Package opensearch connects to OpenSearch and indexes delivery reports so
// operators can search broadcast history.
package opensearch
