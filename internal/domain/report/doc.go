// Package report derives read models from already loaded orders, products
// and stock levels. Every function here is pure: no I/O and no clock access
// beyond the reference time passed in.
package report
