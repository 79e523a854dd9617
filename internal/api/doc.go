// Package api exposes the catalog, cart and user operations over HTTP.
//
// Handlers return errors instead of writing them; ErrorHandler maps each
// returned error to the uniform JSON error envelope. Product writes accept
// either JSON or multipart/form-data carrying an "image" file, which
// UploadStager checks and stages on disk before the media uploader runs.
package api
