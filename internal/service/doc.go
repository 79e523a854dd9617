// Package service implements the catalog, cart and user use cases on top of
// the store interfaces.
//
// Services own existence checks, transactional boundaries and the image
// upload policy. They never write HTTP responses: expected failures are
// returned as *domain.Error values or store sentinel errors and the API layer
// turns them into envelopes.
//
// Every service takes a store.Store, so the same code runs against
// PostgreSQL in production and the in-memory store in tests.
package service
