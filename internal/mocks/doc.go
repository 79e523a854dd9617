// Package mocks provides centralized mock implementations for testing.
//
// Mocks here embed testify's mock.Mock, so expectations are declared with On
// and verified with AssertExpectations:
//
//	uploader := new(mocks.MockImageUploader)
//	uploader.On("Upload", mock.Anything, path).Return("https://cdn/x.png", nil)
//	defer uploader.AssertExpectations(t)
//
// MockStore assembles a store.Store from individual entity stores, which lets
// a test mock one entity store and back the rest with the in-memory store.
package mocks
