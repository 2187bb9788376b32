/*
Package session serializes access to persisted navigation stacks.

A Manager wraps a ports.StackStore and guarantees that reads and writes for
one container id never interleave, within a process through refcounted
mutexes and across replicas through an optional ports.DistributedLocker.
*/
package session
