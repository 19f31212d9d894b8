// Package kv provides the durable key-value backing of the stockroom store.
//
// Values are opaque strings (the entity store writes JSON documents) kept in a
// single SQLite table. The backing plays the role that browser local storage
// played for the browser client: read once at startup, rewritten after
// every mutation.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Writes that belong to one store operation go through SetMany so that either
// every key of the operation is updated or none is.
package kv
