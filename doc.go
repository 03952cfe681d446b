/*
 * doc.go, part of rmatrix.
 *
 * Copyright 2024 The rmatrix authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*Package rmatrix computes neutron elastic and radiative-capture cross sections
with multichannel R-matrix theory, for one spin group at a time.

A spin group is built from its resonance energies, an elastic entrance
channel, any number of exit channels and an incident-energy grid. Each
channel carries one reduced-width amplitude per resonance; together they
form the L x C gamma matrix. For every grid energy the spin group evaluates
the channel kinematics, assembles and inverts the level matrix, builds the
collision matrix U and derives the partial and total cross sections, in barns.

Unitarity of U and additivity of the cross sections are checked at every
energy. Failures are reported as *rmerr.Error values whose kind can be
tested with errors.Is against ErrConfiguration, ErrUnsupported,
ErrInstability or ErrInvariant.

The numerical steps live in sub-packages: kin (kinematics), level (level
matrix), collision (U) and xs (cross sections). The deck, xsio and xsplot
packages read input decks, write tables and draw plots, and cmd/rmatrix
puts them together.

Units: energies in eV, channel radii in 1e-12 cm, wave numbers in 1/cm,
cross sections in barns.
*/
package rmatrix
