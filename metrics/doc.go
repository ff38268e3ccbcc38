/*
Package metrics provides counter, gauge, and histogram handles backed by the
host metrics capability.

Handles are created once with validated names and then emit best-effort host
calls; a failing host never fails the caller. All handle methods are safe to
call on a nil handle, which lets optional instrumentation stay unconditional
at call sites.
*/
package metrics
