package prediction

var labels = [...]string{"Baixo", "Medio", "Alto", "Muito Alto"}

// Label maps a classifier output index to its policy level.
func Label(class int) (string, error) {
	if class < 0 || class >= len(labels) {
		return "", &UnknownClassError{Class: class}
	}
	return labels[class], nil
}

// Labels returns the policy levels in index order.
func Labels() []string {
	out := make([]string, len(labels))
	copy(out, labels[:])
	return out
}
