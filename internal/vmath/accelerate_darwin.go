//go:build accelerate && darwin && cgo && !simd && !blas

package vmath

/*
#cgo CFLAGS: -Wno-deprecated-declarations
#cgo LDFLAGS: -framework Accelerate

#include <Accelerate/Accelerate.h>

static float rt_dot_f32(const float* a, const float* b, int n) {
    float r = 0;
    vDSP_dotpr(a, 1, b, 1, &r, n);
    return r;
}

static double rt_dot_f64(const double* a, const double* b, int n) {
    double r = 0;
    vDSP_dotprD(a, 1, b, 1, &r, n);
    return r;
}

static void rt_add_f32(const float* a, const float* b, float* out, int n) { vDSP_vadd(a, 1, b, 1, out, 1, n); }
static void rt_add_f64(const double* a, const double* b, double* out, int n) { vDSP_vaddD(a, 1, b, 1, out, 1, n); }

// vDSP_vsub computes C = A - B with the operands given as (B, A).
static void rt_sub_f32(const float* a, const float* b, float* out, int n) { vDSP_vsub(b, 1, a, 1, out, 1, n); }
static void rt_sub_f64(const double* a, const double* b, double* out, int n) { vDSP_vsubD(b, 1, a, 1, out, 1, n); }

static void rt_mul_f32(const float* a, const float* b, float* out, int n) { vDSP_vmul(a, 1, b, 1, out, 1, n); }
static void rt_mul_f64(const double* a, const double* b, double* out, int n) { vDSP_vmulD(a, 1, b, 1, out, 1, n); }

static void rt_sigmoid_f32(const float* in, float* out, int n) {
    const float one = 1.0f;
    const float neg_one = -1.0f;
    vDSP_vsmul(in, 1, &neg_one, out, 1, n);
    vvexpf(out, out, &n);
    vDSP_vsadd(out, 1, &one, out, 1, n);
    vvrecf(out, out, &n);
}

static void rt_sigmoid_f64(const double* in, double* out, int n) {
    const double one = 1.0;
    const double neg_one = -1.0;
    vDSP_vsmulD(in, 1, &neg_one, out, 1, n);
    vvexp(out, out, &n);
    vDSP_vsaddD(out, 1, &one, out, 1, n);
    vvrec(out, out, &n);
}

static void rt_tanh_f32(const float* in, float* out, int n) { vvtanhf(out, in, &n); }
static void rt_tanh_f64(const double* in, double* out, int n) { vvtanh(out, in, &n); }

static void rt_softmax_f32(const float* in, float* out, int n) {
    float sum = 0;
    vvexpf(out, in, &n);
    vDSP_sve(out, 1, &sum, n);
    vDSP_vsdiv(out, 1, &sum, out, 1, n);
}

static void rt_softmax_f64(const double* in, double* out, int n) {
    double sum = 0;
    vvexp(out, in, &n);
    vDSP_sveD(out, 1, &sum, n);
    vDSP_vsdivD(out, 1, &sum, out, 1, n);
}

static void rt_gemv_f32(const float* w, int rows, int cols, const float* x, float* out) {
    cblas_sgemv(CblasRowMajor, CblasNoTrans, rows, cols, 1.0f, w, cols, x, 1, 0.0f, out, 1);
}

static void rt_gemv_f64(const double* w, int rows, int cols, const double* x, double* out) {
    cblas_dgemv(CblasRowMajor, CblasNoTrans, rows, cols, 1.0, w, cols, x, 1, 0.0, out, 1);
}
*/
import "C"

// Non-generic wrappers around the C kernels. Slices must be non-empty and of
// the documented lengths.

func dotF32(a, b []float32) float32 {
	return float32(C.rt_dot_f32((*C.float)(&a[0]), (*C.float)(&b[0]), C.int(len(a))))
}

func dotF64(a, b []float64) float64 {
	return float64(C.rt_dot_f64((*C.double)(&a[0]), (*C.double)(&b[0]), C.int(len(a))))
}

func addF32(a, b, out []float32) {
	C.rt_add_f32((*C.float)(&a[0]), (*C.float)(&b[0]), (*C.float)(&out[0]), C.int(len(a)))
}

func addF64(a, b, out []float64) {
	C.rt_add_f64((*C.double)(&a[0]), (*C.double)(&b[0]), (*C.double)(&out[0]), C.int(len(a)))
}

func subF32(a, b, out []float32) {
	C.rt_sub_f32((*C.float)(&a[0]), (*C.float)(&b[0]), (*C.float)(&out[0]), C.int(len(a)))
}

func subF64(a, b, out []float64) {
	C.rt_sub_f64((*C.double)(&a[0]), (*C.double)(&b[0]), (*C.double)(&out[0]), C.int(len(a)))
}

func mulF32(a, b, out []float32) {
	C.rt_mul_f32((*C.float)(&a[0]), (*C.float)(&b[0]), (*C.float)(&out[0]), C.int(len(a)))
}

func mulF64(a, b, out []float64) {
	C.rt_mul_f64((*C.double)(&a[0]), (*C.double)(&b[0]), (*C.double)(&out[0]), C.int(len(a)))
}

func sigmoidF32(in, out []float32) {
	C.rt_sigmoid_f32((*C.float)(&in[0]), (*C.float)(&out[0]), C.int(len(in)))
}

func sigmoidF64(in, out []float64) {
	C.rt_sigmoid_f64((*C.double)(&in[0]), (*C.double)(&out[0]), C.int(len(in)))
}

func tanhF32(in, out []float32) {
	C.rt_tanh_f32((*C.float)(&in[0]), (*C.float)(&out[0]), C.int(len(in)))
}

func tanhF64(in, out []float64) {
	C.rt_tanh_f64((*C.double)(&in[0]), (*C.double)(&out[0]), C.int(len(in)))
}

func softmaxF32(in, out []float32) {
	C.rt_softmax_f32((*C.float)(&in[0]), (*C.float)(&out[0]), C.int(len(in)))
}

func softmaxF64(in, out []float64) {
	C.rt_softmax_f64((*C.double)(&in[0]), (*C.double)(&out[0]), C.int(len(in)))
}

func gemvF32(w []float32, rows, cols int, x, out []float32) {
	C.rt_gemv_f32((*C.float)(&w[0]), C.int(rows), C.int(cols), (*C.float)(&x[0]), (*C.float)(&out[0]))
}

func gemvF64(w []float64, rows, cols int, x, out []float64) {
	C.rt_gemv_f64((*C.double)(&w[0]), C.int(rows), C.int(cols), (*C.double)(&x[0]), (*C.double)(&out[0]))
}
