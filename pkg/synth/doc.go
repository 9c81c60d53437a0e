// Package synth generates populated values of arbitrary Go types for tests
// and fixtures.
//
// Given a type descriptor, a Generator walks the type graph: it consults the
// binding table and the provider chain, resolves interfaces to concrete types
// or stand-ins, allocates structs through registered constructors or as zero
// values, and fills their fields and setters recursively. Types that refer
// back to themselves are cut by a terminator chain instead of recursing
// forever.
//
//	g, err := synth.New(
//		synth.WithSeed(42),
//		synth.WithBindings(
//			synth.BindName("Email", synth.Const("user@example.com")),
//		),
//		synth.WithResolver(synth.Implement[Store, *memStore]()),
//	)
//	if err != nil {
//		return err
//	}
//	user, err := synth.Make[User](g)
//
// Generation order for a descriptor:
//
//  1. a re-entered type is handed to the terminators
//  2. a global type binding
//  3. the first recognizing provider: custom, structural, then leaf
//  4. interfaces: resolvers, then stand-ins; the empty interface is absent
//  5. structs: constructor or zero allocation, then setters and fields
//  6. unbound variables are absent, leaf types without a provider get a fixed default
//
// Struct members are resolved with their own precedence: local name binding,
// global name binding, local type binding, then generation of the member type.
// A field tagged `synth:"-"` is never touched.
package synth
