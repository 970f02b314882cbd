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

package geom

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Sphere is a ball of radius R around Center.
type Sphere[I constraints.Float] struct {
	Center Vec3[I]
	R      I
}

// WithIn reports whether point lies strictly inside the sphere.
func (s Sphere[I]) WithIn(point Vec3[I]) bool {
	return s.Center.DistanceTo(point) < float64(s.R)
}

// Box is an axis-aligned box. Infinite bounds are allowed, so a box can
// describe a half-open region such as "anything above the floor".
type Box[I constraints.Float] struct {
	Upper, Lower Vec3[I]
}

// WithIn reports whether point lies inside the box. Faces count as inside.
func (b Box[I]) WithIn(point Vec3[I]) bool {
	for i := range point {
		if point[i] < b.Lower[i] || point[i] > b.Upper[i] {
			return false
		}
	}
	return true
}

// Unbounded returns a value usable as an open box limit.
func Unbounded[I constraints.Float](sign int) I {
	return I(math.Inf(sign))
}
