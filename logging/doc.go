/*
Package logging sends log entries to the host runtime's logger capability.

Logging is best-effort: host failures are dropped so that a broken logger
never fails a storage operation. Messages below Config.Level are not sent.
Discard returns a Client that drops everything, for callers that have no
logger configured.
*/
package logging
