package kin

//Physical constants and unit conversions. Energies are in eV,
//channel radii in units of 1e-12 cm, wave numbers in 1/cm.
const (
	//NeutronK is sqrt(2 m_n)/hbar in 1/(cm sqrt(eV)).
	NeutronK = 0.002197e12
	//Hbar in eV s.
	Hbar = 6.582119e-16
	//C, the speed of light, in cm/s.
	C = 2.99792e10
	//HbarC in eV cm.
	HbarC = Hbar * C
	//RadiusUnit converts a channel radius to cm.
	RadiusUnit = 1e-12
	//Barn in cm^2.
	Barn = 1e-24
)

//Largest orbital angular momenta with an implemented formula.
const (
	MaxMassiveL = 0
	MaxPhotonL  = 2
)
