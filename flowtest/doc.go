// Package flowtest provides test doubles and helpers shared by the tests of
// all flow packages.
package flowtest
