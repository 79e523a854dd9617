// Package domain contains the catalog's core business entities (users,
// categories, products and cart items) and the typed errors raised while
// serving requests. It is independent of any specific infrastructure or
// delivery mechanism.
package domain
