/*
Package session orchestrates concurrent access to persisted conversation
logs.

It layers reference-counted in-process locks over a SessionStore, and can
additionally coordinate replicas through a DistributedLocker so that only
one turn runs per session at a time.
*/
package session
