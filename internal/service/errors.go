package service

import (
	"errors"

	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/store"
)

// Messages of the not-found errors raised by existence checks. Handlers
// return them to clients verbatim.
const (
	MsgUserNotFound     = "User not found"
	MsgCategoryNotFound = "Category not found"
	MsgProductNotFound  = "Product not found"
	MsgCartItemNotFound = "Cart item not found for this user"
)

// ErrUploadsDisabled is returned by DisabledUploader.
var ErrUploadsDisabled = errors.New("image uploads are not configured")

// notFoundAs replaces a store not-found error with a client-facing
// domain.NotFound carrying msg. Other errors pass through.
func notFoundAs(err error, msg string) error {
	if store.IsNotFoundError(err) {
		return domain.NotFound(msg)
	}
	return err
}
