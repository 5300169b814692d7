// Package pkc defines the shared surface of the pkc-go engines: the Algorithm
// capability, key and envelope types, configuration and the error taxonomy.
//
// The engines themselves live in subpackages (rsa, elgamal, ecc) and are built
// on the from-scratch arithmetic in bigmath, prime and toyhash. Applications
// usually reach them through the registry package:
//
//	reg, err := registry.New(pkc.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	alg, err := reg.Get("rsa")
//	if err != nil {
//	    return err
//	}
//	kp, err := alg.GenerateKeys(ctx)
//	env, err := alg.Encrypt("hello", kp.Public)
//	msg, err := alg.Decrypt(env, kp.Private)
//
// # Errors
//
// Every engine method fails with an *Error whose Kind is one of the sentinel
// errors of this package, so callers can branch with errors.Is:
//
//	if errors.Is(err, pkc.ErrMessageTooLong) {
//	    // shorten the message
//	}
//
// # Security
//
// This is teaching code. None of the arithmetic is constant time and the
// default hash (toyhash) is not a cryptographic hash.
package pkc
