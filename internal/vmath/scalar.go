package vmath

// Scalar loops shared by the generic backend and by the tails of the
// vectorized backends.

func dotScalar[T Float](a, b []T) T {
	var sum T
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func addScalar[T Float](a, b, out []T) {
	for i := range a {
		out[i] = a[i] + b[i]
	}
}

func subScalar[T Float](a, b, out []T) {
	for i := range a {
		out[i] = a[i] - b[i]
	}
}

func mulScalar[T Float](a, b, out []T) {
	for i := range a {
		out[i] = a[i] * b[i]
	}
}

func sigmoidScalar[T Float](in, out []T) {
	for i := range in {
		out[i] = Sigmoid(in[i])
	}
}

func tanhScalar[T Float](in, out []T) {
	for i := range in {
		out[i] = Tanh(in[i])
	}
}

func softmaxScalar[T Float](in, out []T) {
	var sum T
	for i := range in {
		out[i] = Exp(in[i])
		sum += out[i]
	}
	for i := range in {
		out[i] /= sum
	}
}

func matVecScalar[T Float](w []T, rows, cols int, x, out []T) {
	x = x[:cols]
	for i := 0; i < rows; i++ {
		out[i] = dotScalar(w[i*cols:(i+1)*cols], x)
	}
}
