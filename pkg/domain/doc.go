/*
Package domain contains the shared vocabulary of the swerve model: the error
taxonomy, change kinds, body kinds, node lifecycle states and joint types.

It is kept free of math and I/O so every other package can depend on it.

# Errors

All operations return one of the sentinel errors below, possibly wrapped with
context. Match them with errors.Is:

  - ErrDuplicateIdentity, ErrUnknownIdentity, ErrUnknownParent, ErrHasChildren:
    identity and topology mistakes by the caller.
  - ErrDimensionMismatch: frames or transforms of different dimensionality.
    The concrete error is usually a *DimensionError.
  - ErrInvalidTransform: a missing, non-rigid or non-finite transform, or a
    non-finite joint value.
  - ErrDisconnected: no tree path between two nodes.
  - ErrNoSteeringFrame, ErrNotSwerve: the tree is sound but is not laid out
    as a swerve drive.
  - ErrOverflow: a change bus subscriber lost events and should resync.
  - ErrInternalInvariant: a bug broke the tree structure.

Identity and dimension errors are caller bugs and should not be retried.
*/
package domain
