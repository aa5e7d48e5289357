// Package fuzztests houses Go fuzz harnesses for the swift containers. Op
// harnesses interpret the fuzz input as a program of container operations
// and compare every step against a host model; codec harnesses decode
// arbitrary bytes and require an error or a container whose invariants
// hold.
package fuzztests
