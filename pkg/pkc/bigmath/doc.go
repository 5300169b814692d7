// Package bigmath implements the arbitrary-precision helpers shared by the
// engines: modular exponentiation, modular inverse, unbiased random sampling
// and the integer/byte/hex/base64 conversions used by the envelope encoding.
//
// Only the storage and elementary operations of math/big are used; the
// algorithms themselves (square-and-multiply, extended Euclid, rejection
// sampling) are implemented here so they can be inspected step by step.
package bigmath
