// Package dyn4go is a 2D collision detection and rigid body physics
// engine. It provides convex shape primitives, broadphase and
// narrowphase collision detection (SAT and GJK with EPA), contact
// manifold generation by reference edge clipping, and an iterative
// impulse based constraint solver with joints, islands, and sleeping.
//
// The package is not safe for concurrent use. A World and everything
// attached to it must be accessed from one goroutine at a time; the
// only internal concurrency is the optional parallel solving of
// disjoint islands.
package dyn4go
