package shazam

import "math"

// fft computes the discrete Fourier transform of real-valued input using a
// recursive radix-2 Cooley-Tukey decomposition. Callers are responsible for
// padding input to a power-of-two length (Spectrogram passes frames of
// cfg.FFTSize samples, which Config expects to be one).
func fft(input []float64) []complex128 {
	c := make([]complex128, len(input))
	for i, v := range input {
		c[i] = complex(v, 0)
	}
	return fftRecursive(c)
}

func fftRecursive(input []complex128) []complex128 {
	n := len(input)
	if n <= 1 {
		return input
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = input[2*i]
		odd[i] = input[2*i+1]
	}

	even = fftRecursive(even)
	odd = fftRecursive(odd)

	out := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		angle := -2 * math.Pi * float64(k) / float64(n)
		twiddle := complex(math.Cos(angle), math.Sin(angle))
		out[k] = even[k] + twiddle*odd[k]
		out[k+n/2] = even[k] - twiddle*odd[k]
	}
	return out
}
