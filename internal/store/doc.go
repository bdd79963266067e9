// Package store is the device-local key-value persistence layer.
//
// A Store maps string keys to string values. FileStore keeps every key in a
// single JSON object on disk and replaces the file atomically on each write;
// MemoryStore keeps values in process memory.
//
// Writes from the interactive screen never block it. A Saver accepts the
// latest serialized list and persists it in the background:
//
//   - Writer runs one write at a time and coalesces values submitted while
//     a write is in flight, so the store always ends with the last value
//     saved in logical order.
//   - Async starts one goroutine per value, mirroring plain fire-and-forget
//     writes; completion order decides which value survives.
//
// Both record write failures instead of returning them to the caller of
// Save, and both drain outstanding work on Flush and Close.
package store
