// Package view holds the list logic shared by the CLI screens: search
// filters, creation-time sorting, per-customer totals and the dialog state
// used while viewing or editing one entity.
//
// Nothing here touches the store. Functions take snapshots and return new
// slices; inputs are never modified.
package view
