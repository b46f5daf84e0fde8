// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [DocumentSource]: Produces the ordered documents of one batch pass
//   - [UploadClient]: Submits one document to the remote service
//   - [FailureLedger]: Durable record of documents that failed in the current pass
//   - [RateLimiter]: Minimum-interval gate between requests
//   - [ProgressObserver]: Receives progress updates (console or terminal UI)
//   - [Authenticator], [Signer]: External collaborators used at startup and per submit
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement these interfaces
// with concrete implementations (file system, HTTP, zerolog, etc.).
package ports
