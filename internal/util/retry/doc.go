// Package retry provides exponential backoff retry logic and fixed-interval
// polling for asynchronous remote state transitions.
//
// [WithExponentialBackoff] retries an operation with configurable max
// attempts, initial delay, and maximum delay. It is used for EC2 API calls
// and other operations that may fail transiently.
//
// [PollUntil] repeatedly invokes a boolean success probe at a fixed interval
// until it reports done, the attempt cap is reached, or the context is
// cancelled. "Not yet" is a value, not an error, so a probe error counts as
// one failed attempt rather than aborting the poll.
package retry
