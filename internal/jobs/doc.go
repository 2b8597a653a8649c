// Package jobs implements background tasks for the GameFlow API.
//
// Jobs run independently of HTTP request handling and follow a common
// shape: NewX constructs the job, Start launches its ticker loop in a
// goroutine, Stop shuts it down and waits, and RunOnce triggers a single
// pass for tests or manual invocation.
//
// Jobs log errors and keep running; a failed pass is retried on the
// next tick.
package jobs
