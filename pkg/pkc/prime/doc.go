// Package prime implements the probabilistic primality test and the random
// prime search used by RSA key generation.
//
// IsProbablePrime combines trial division by small primes with Miller-Rabin
// using uniformly random witnesses. Generate draws odd candidates with the two
// top bits set until one passes, honouring context cancellation between
// candidates.
package prime
