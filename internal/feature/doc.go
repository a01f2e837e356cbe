// Package feature defines the visual feature contract and the catalogue of
// concrete feature kinds.
//
// A feature holds the current value s of one measured quantity and exposes
//
//   - the error s - s* against a desired feature of the same kind,
//   - the interaction matrix L relating ds/dt to the 6-DOF sensor velocity.
//
// Kinds:
//
//   - [Point]: normalized image coordinates (x, y), depth Z for L only
//   - [Point3D]: 3D point (X, Y, Z) in the camera frame
//   - [Translation]: 3D translation in one of the [TranslationFrame]s
//   - [ThetaU]: axis-angle rotation in one of the [RotationFrame]s
//   - [Depth]: log(Z/Z*) of a point
//   - [Generic]: n values with a caller-supplied interaction matrix
//
// # Selection
//
// Every operation takes a [Selector] restricting it to a subset of
// components. Each kind has its own selector type, so PointX|PointY is
// valid while PointX|TranslationTX does not compile. [All] selects every
// component of any kind; a nil selector means the same.
//
// Features are owned by the caller and mutated only by their BuildFrom
// methods.
package feature
