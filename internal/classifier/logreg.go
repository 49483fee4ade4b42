package classifier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// LogisticRegression is a binary L2-regularized logistic model.
// The intercept is not penalized.
type LogisticRegression struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// FitLogistic minimizes 0.5*||w||^2 + C * sum(log(1 + exp(-s_i * (w.x_i + b))))
// with BFGS, where s_i is +1 for y_i == 1 and -1 otherwise.
func FitLogistic(x *mat.Dense, y []float64, opts Options) (*LogisticRegression, error) {
	n, d := x.Dims()
	if n != len(y) {
		return nil, fmt.Errorf("fit logistic: %d rows but %d targets", n, len(y))
	}

	c := opts.Regularization
	signs := make([]float64, n)
	for i, v := range y {
		signs[i] = -1
		if v == 1 {
			signs[i] = 1
		}
	}

	z := make([]float64, n)
	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			w, b := params[:d], params[d]
			decision(z, x, w, b)
			loss := 0.0
			for i := range z {
				loss += logOnePlusExp(-signs[i] * z[i])
			}
			return 0.5*floats.Dot(w, w) + c*loss
		},
		Grad: func(grad, params []float64) {
			w, b := params[:d], params[d]
			decision(z, x, w, b)

			copy(grad[:d], w)
			grad[d] = 0
			for i := range z {
				// d/dz log(1+exp(-s z)) = -s * sigmoid(-s z)
				g := -c * signs[i] * sigmoid(-signs[i]*z[i])
				floats.AddScaled(grad[:d], g, x.RawRowView(i))
				grad[d] += g
			}
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: 1e-6,
		MajorIterations:   opts.MaxIterations,
	}

	result, err := optimize.Minimize(problem, make([]float64, d+1), settings, &optimize.BFGS{})
	if result == nil || len(result.X) != d+1 || floats.HasNaN(result.X) {
		return nil, fmt.Errorf("%w: optimizer returned no usable solution: %v", ErrUnfittable, err)
	}
	// a line search that stalls next to the optimum still leaves a usable point
	if err != nil && math.IsInf(result.F, 0) {
		return nil, fmt.Errorf("%w: optimizer: %v", ErrUnfittable, err)
	}

	weights := make([]float64, d)
	copy(weights, result.X[:d])
	return &LogisticRegression{Weights: weights, Intercept: result.X[d]}, nil
}

// Probabilities returns P(y = 1 | row) for each row of x
func (m *LogisticRegression) Probabilities(x *mat.Dense) ([]float64, error) {
	n, d := x.Dims()
	if d != len(m.Weights) {
		return nil, fmt.Errorf("got %d features, model expects %d", d, len(m.Weights))
	}

	out := make([]float64, n)
	decision(out, x, m.Weights, m.Intercept)
	for i, v := range out {
		out[i] = sigmoid(v)
	}
	return out, nil
}

// decision writes w.x_i + b for each row into dst
func decision(dst []float64, x *mat.Dense, w []float64, b float64) {
	for i := range dst {
		dst[i] = floats.Dot(x.RawRowView(i), w) + b
	}
}

func sigmoid(t float64) float64 {
	if t >= 0 {
		return 1 / (1 + math.Exp(-t))
	}
	e := math.Exp(t)
	return e / (1 + e)
}

// logOnePlusExp computes log(1 + exp(t)) without overflow
func logOnePlusExp(t float64) float64 {
	if t > 0 {
		return t + math.Log1p(math.Exp(-t))
	}
	return math.Log1p(math.Exp(t))
}
