/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically describing vehicle frames.

It allows developers to declare a robot's bodies and how they hang together using a fluent
builder instead of a YAML description. This is particularly useful for tests, simulators that
generate variants of a chassis, and leveraging IDE autocompletion/type-checking.

Example usage:

	b := dsl.New()

	b.Add("chassis").Body(domain.BodyChassis).Mass(30)

	b.Add("module_0").Under("chassis").
		At(0.3, 0.2, 0).
		Steer(0).
		Body(domain.BodySteering)

	b.Add("wheel_0").Under("module_0").
		At(0, 0, -0.05).
		Spin(0).
		Body(domain.BodyWheel)

	g, err := b.Build()

Frames may be declared in any order; Build adds parents before children.
*/
package dsl
