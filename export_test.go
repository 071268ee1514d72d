package canopy

// AppendEntry exposes forest appending to the package's tests.
func (f *Forest) AppendEntry(t Tree, weight float64) {
	f.append(t, weight)
}
