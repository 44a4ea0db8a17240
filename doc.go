/*
Package swerve keeps the kinematic frame tree of a swerve-drive robot and
answers coordinate transform queries between any two of its frames.

A model is a rooted tree. Every frame hangs from its parent through an edge
that maps the child's coordinates into the parent's: a fixed rotation, a
rigid transform, or a joint whose single degree of freedom (a steering
angle, a wheel spin) is set at run time. Frames live in planar (2D) or
spatial (3D) spaces and an edge only connects frames of the same
dimensionality.

# Usage

Load a description and query it:

	m, err := swerve.Open("robot.yaml")
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if err := m.SetJointValue("module_0", math.Pi/4); err != nil {
		log.Fatal(err)
	}
	t, err := m.TransformBetween("wheel_0", "chassis")

Descriptions list frames with their parent, offset and optional joint.
Angles in description files are degrees:

	name: bench
	frames:
	  - id: chassis
	    kind: chassis
	  - id: module_0
	    parent: chassis
	    kind: steering
	    translation: [0.3, 0.2, 0]
	    joint: {dof: revolute_z}

# Changes

Every accepted mutation is published on the model's change bus. Subscribers
own a bounded queue; a subscriber that falls behind loses the oldest events
and is told so through its overflow channel, after which it should take a
fresh Snapshot.

The pkg/mirror package uses this to keep a snapshot store (memory, file or
Redis) in step with a live model.
*/
package swerve
