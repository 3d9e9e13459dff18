/*
Package ports defines the driven ports (interfaces) of the renderer client.

These interfaces decouple the session runtime from concrete connections,
sample storage and coordination backends.

# Key Interfaces

  - Transport: a single connection to the renderer (send requests, receive responses and events).
  - SampleLoader: retrieves sample documents by name (file system, Loam library, memory).
  - DistributedLocker: guards a renderer runner against concurrent scripted clients.
*/
package ports
