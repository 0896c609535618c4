// Package batch groups independent address reads into as few remote calls as
// possible while tolerating partial failure.
//
// The Coordinator splits a request list into chunks bounded by the remote
// API's batch limit, issues one BatchGet per chunk and re-associates the
// (possibly reordered) responses with their requests by address identity.
// A failed chunk degrades to one SingleGet per address; an address whose
// individual read also fails is recorded as absent rather than aborting its
// siblings — partial results are always preferable to none.
//
// Transient failures are retried with exponential backoff around the whole
// FetchMany call, never per chunk, so worst-case latency stays predictable.
package batch
