/*Package scup is the main package of the ezSCUP library. It provides data
structures for the lattice geometries used by the SCALE-UP second-principles
code, codecs for its reference (.REF) and restart (.restart) geometry file
formats, and the statistical averaging of restart snapshots into equilibrium
geometries.


	**ezSCUP Capabilities**

    Reads/writes SCALE-UP .REF and .restart geometry files, plain or
	gzip/zstd compressed.

    Averages any number of partial .restart snapshots into a single
	equilibrium geometry, discarding an equilibration prefix.

    Parses the lattice section of SCALE-UP output files into a time series
	keyed by Monte Carlo step.

    Indexes a temperature/stress/strain/field parameter sweep onto the
	on-disk configuration folder scheme, and loads any simulated
	configuration back (subpackage mc).

    Computes Born-charge polarizations and antiferrodistortive rotation
	angles from equilibrium geometries (subpackage analysis).

All physical quantities follow the SCALE-UP conventions: distances in Bohr,
strains and stresses in Voigt notation, temperatures in K and electric
fields in V/m.
*/
package scup
