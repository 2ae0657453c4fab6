// Package camera owns the projection model: intrinsic matrix, per-frame
// homogeneous transform and the perspective divide.
//
// Responsibilities: building K from focal lengths and principal point,
// composing the frame transform M = L · R(θ) · T, and mapping a point
// set through M and K onto the image plane.
// Key types: Intrinsics, IntrinsicMatrix, Transform, Model, Projection.
//
// Conventions: points are column vectors and matrices multiply on the
// left (p' = M · p). Rotation is right-handed about +Z. The pinhole
// shift T is applied in the object frame, before rotation, so the
// aperture is fixed to the rotating object rather than to the camera.
//
// Points whose depth after K is exactly zero lie on the focal plane and
// have no defined pixel. Project writes DegeneratePoint into their slot
// and records the index; it never panics.
package camera
