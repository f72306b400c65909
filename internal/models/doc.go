// Package models defines the core domain models for the storefront.
//
// # Models
//
//   - User: a registered principal, identified by a unique username
//   - Item: an immutable catalog entry with a unit price
//   - Cart: the user's mutable collection of items and their running total
//   - Order: an immutable snapshot of a cart taken at submission time
//
// # Design Principles
//
//  1. **Money is exact**: prices and totals use decimal.Decimal, never float64
//  2. **Avoid circular references**: a Cart and an Order point back to their
//     owner by UserID only; the User does not hold its Cart
//  3. **Quantity is repetition**: adding n units of an item appends n copies
//     to Cart.Items, so a cart total is always the plain sum of its items
//  4. **Snapshots are copies**: an Order never shares its Items slice with the
//     Cart it was created from
package models
