package types

// Conversion factors into SI base units, multiply a value in the named unit to get SI
const (
	Knot     = 1852. / 3600.              // m/s
	FtPerMin = 0.3048 / 60.               // m/s
	Kilowatt = 1.e3                       // W
	Megawatt = 1.e6                       // W
	MJPerKg  = 1.e6                       // J/kg
	WhPerKg  = 3600.                      // J/kg
	GPerKWHr = 1.e-3 / (Kilowatt * 3600.) // kg/J, specific fuel consumption
	Gravity  = 9.81                       // m/s^2
)
