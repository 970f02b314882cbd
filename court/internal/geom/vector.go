// This file is part of go-mc/server project.
// Copyright (C) 2023.  Tnze
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Vectors and bounding volumes used by the court simulation.
// The ball, the rim and the pickups are all points or spheres in the
// same right-handed space: x to the right, y up, z towards the shooter.

package geom

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Vec3 is a three-component vector.
type Vec3[I constraints.Float] [3]I

// Add returns v + other.
func (v Vec3[I]) Add(other Vec3[I]) Vec3[I] {
	return Vec3[I]{v[0] + other[0], v[1] + other[1], v[2] + other[2]}
}

// Sub returns v - other.
func (v Vec3[I]) Sub(other Vec3[I]) Vec3[I] {
	return Vec3[I]{v[0] - other[0], v[1] - other[1], v[2] - other[2]}
}

// Norm is the Euclidean length.
func (v Vec3[I]) Norm() float64 { return sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]) }

// DistanceTo is the straight-line distance between two points.
func (v Vec3[I]) DistanceTo(other Vec3[I]) float64 { return v.Sub(other).Norm() }

// IsValid reports whether no component is NaN or infinite.
func (v Vec3[I]) IsValid() bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func sqrt[T constraints.Float](v T) float64 {
	return math.Sqrt(float64(v))
}
