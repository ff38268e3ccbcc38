/*
Package kv provides a client for the host key-value capability from
WebAssembly guest functions.

The client serializes requests with the kvstore protobufs, forwards them to
the host with waPC, and maps host status codes onto sentinel errors. Zero-value
Config options fall back to storage.DefaultNamespace and the default waPC host
call.

Construct a Client with New, then invoke Set, Get, Delete, and Keys. Tests can
inject custom host behaviour with Config.HostCall to exercise failure paths
without a real host, or use the kv/mock package to skip the wire entirely.
*/
package kv
