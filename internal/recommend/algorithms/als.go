// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package algorithms

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"
)

// ALSConfig contains configuration for the ALS algorithm.
type ALSConfig struct {
	// NumFactors is the dimension of the latent factor vectors.
	NumFactors int

	// NumIterations is the number of alternating sweeps.
	NumIterations int

	// Regularization is the L2 penalty lambda.
	Regularization float64

	// Alpha scales confidence: c = 1 + alpha * r.
	Alpha float64

	// NumWorkers bounds parallel solves. <= 0 uses runtime.NumCPU().
	NumWorkers int
}

// DefaultALSConfig returns the production hyperparameters.
func DefaultALSConfig() ALSConfig {
	return ALSConfig{
		NumFactors:     64,
		NumIterations:  20,
		Regularization: 0.08,
		Alpha:          1.0,
	}
}

// FactorModel is the serializable result of ALS training.
type FactorModel struct {
	Factors     int            `json:"factors"`
	UserIndex   map[string]int `json:"user_index"`
	ItemIndex   map[string]int `json:"item_index"`
	UserFactors [][]float64    `json:"user_factors"`
	ItemFactors [][]float64    `json:"item_factors"`
}

// Score is the dot product of the user and item vectors, 0 when either id is
// unknown or the stored factors do not line up with the indexes.
func (m *FactorModel) Score(userID, itemID string) float64 {
	if m == nil {
		return 0
	}
	u, ok := m.UserIndex[userID]
	if !ok {
		return 0
	}
	i, ok := m.ItemIndex[itemID]
	if !ok {
		return 0
	}
	if u < 0 || u >= len(m.UserFactors) || i < 0 || i >= len(m.ItemFactors) {
		return 0
	}
	return dot(m.UserFactors[u], m.ItemFactors[i])
}

// ALS implements Alternating Least Squares for implicit feedback
// (Hu, Koren, Volinsky 2008). It minimizes
//
//	sum_{u,i} c_ui (p_ui - x_u'y_i)^2 + lambda (||x_u||^2 + ||y_i||^2)
//
// where p_ui = 1 for observed pairs and c_ui = 1 + alpha*r_ui.
type ALS struct {
	mu     sync.Mutex
	config ALSConfig
}

// NewALS creates an ALS trainer, filling zero fields from DefaultALSConfig.
func NewALS(cfg ALSConfig) *ALS {
	def := DefaultALSConfig()
	if cfg.NumFactors <= 0 {
		cfg.NumFactors = def.NumFactors
	}
	if cfg.NumIterations <= 0 {
		cfg.NumIterations = def.NumIterations
	}
	if cfg.Regularization <= 0 {
		cfg.Regularization = def.Regularization
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = def.Alpha
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.NumCPU()
	}
	return &ALS{config: cfg}
}

// Config returns the effective configuration.
func (a *ALS) Config() ALSConfig {
	return a.config
}

// Train fits the model on positive feedback. User and item indexes are the
// sorted unique ids so repeated trainings on the same data are identical.
func (a *ALS) Train(ctx context.Context, feedback []Feedback) (*FactorModel, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	positives := make([]Feedback, 0, len(feedback))
	for _, f := range feedback {
		if f.Reward > 0 && f.UserID != "" && f.ItemID != "" {
			positives = append(positives, f)
		}
	}
	if len(positives) == 0 {
		return nil, ErrNoPositivePairs
	}

	userIndex := sortedIndex(positives, func(f Feedback) string { return f.UserID })
	itemIndex := sortedIndex(positives, func(f Feedback) string { return f.ItemID })
	numUsers, numItems, nf := len(userIndex), len(itemIndex), a.config.NumFactors

	// Sparse confidence matrix in both orientations.
	userItems := make([]map[int]float64, numUsers)
	itemUsers := make([]map[int]float64, numItems)
	for _, f := range positives {
		u, i := userIndex[f.UserID], itemIndex[f.ItemID]
		if userItems[u] == nil {
			userItems[u] = make(map[int]float64)
		}
		if itemUsers[i] == nil {
			itemUsers[i] = make(map[int]float64)
		}
		conf := 1.0 + a.config.Alpha*f.Reward
		if conf > userItems[u][i] {
			userItems[u][i] = conf
			itemUsers[i][u] = conf
		}
	}

	X := initFactors(numUsers, nf)
	Y := initFactors(numItems, nf)
	lambda := a.config.Regularization

	for iter := 0; iter < a.config.NumIterations; iter++ {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		a.solveSide(X, Y, userItems, lambda)
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		a.solveSide(Y, X, itemUsers, lambda)
	}

	return &FactorModel{
		Factors:     nf,
		UserIndex:   userIndex,
		ItemIndex:   itemIndex,
		UserFactors: X,
		ItemFactors: Y,
	}, nil
}

func sortedIndex(fb []Feedback, key func(Feedback) string) map[string]int {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, f := range fb {
		k := key(f)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			ids = append(ids, k)
		}
	}
	sort.Strings(ids)
	idx := make(map[string]int, len(ids))
	for n, id := range ids {
		idx[id] = n
	}
	return idx
}

// initFactors uses a deterministic pattern so training is reproducible.
func initFactors(rows, nf int) [][]float64 {
	m := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		m[r] = make([]float64, nf)
		for f := 0; f < nf; f++ {
			m[r][f] = 0.1 * (float64((r*nf+f*7+r)%1000)/1000.0 - 0.5)
		}
	}
	return m
}

// solveSide recomputes every row of target with fixed held, where
// observed[row] maps held-row index to confidence.
//
//nolint:gocritic // matrix names follow linear algebra notation
func (a *ALS) solveSide(target, fixed [][]float64, observed []map[int]float64, lambda float64) {
	nf := a.config.NumFactors
	gram := gramMatrix(fixed, nf)

	workers := a.config.NumWorkers
	rows := len(target)
	chunk := (rows + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, rows)
		if start >= end {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for r := start; r < end; r++ {
				target[r] = solveRow(observed[r], fixed, gram, nf, lambda)
			}
		}(start, end)
	}
	wg.Wait()
}

// gramMatrix returns M'M for an n x nf matrix M.
func gramMatrix(m [][]float64, nf int) [][]float64 {
	g := make([][]float64, nf)
	for f := range g {
		g[f] = make([]float64, nf)
	}
	for _, row := range m {
		for f1 := 0; f1 < nf; f1++ {
			for f2 := f1; f2 < nf; f2++ {
				g[f1][f2] += row[f1] * row[f2]
			}
		}
	}
	for f1 := 0; f1 < nf; f1++ {
		for f2 := 0; f2 < f1; f2++ {
			g[f1][f2] = g[f2][f1]
		}
	}
	return g
}

// solveRow solves (Y'Y + Y'(C-I)Y + lambda I) x = Y'C p for one row.
//
//nolint:gocritic // A follows linear algebra notation
func solveRow(observed map[int]float64, fixed, gram [][]float64, nf int, lambda float64) []float64 {
	A := make([][]float64, nf)
	for f := range A {
		A[f] = make([]float64, nf)
		copy(A[f], gram[f])
		A[f][f] += lambda
	}
	b := make([]float64, nf)

	for j, conf := range observed {
		y := fixed[j]
		cm1 := conf - 1.0
		for f1 := 0; f1 < nf; f1++ {
			for f2 := f1; f2 < nf; f2++ {
				d := cm1 * y[f1] * y[f2]
				A[f1][f2] += d
				if f1 != f2 {
					A[f2][f1] += d
				}
			}
			b[f1] += conf * y[f1]
		}
	}
	return solveLinearSystem(A, b)
}

// solveLinearSystem solves A*x = b for symmetric positive definite A using
// Cholesky decomposition.
//
//nolint:gocritic // A, L follow standard linear algebra notation
func solveLinearSystem(A [][]float64, b []float64) []float64 {
	n := len(b)
	L := make([][]float64, n)
	for i := range L {
		L[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := A[i][j]
			for k := 0; k < j; k++ {
				sum -= L[i][k] * L[j][k]
			}
			if i == j {
				if sum <= 0 {
					sum = 1e-10
				}
				L[i][j] = math.Sqrt(sum)
			} else if L[j][j] != 0 {
				L[i][j] = sum / L[j][j]
			}
		}
	}

	z := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for j := 0; j < i; j++ {
			sum -= L[i][j] * z[j]
		}
		if L[i][i] != 0 {
			z[i] = sum / L[i][i]
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for j := i + 1; j < n; j++ {
			sum -= L[j][i] * x[j]
		}
		if L[i][i] != 0 {
			x[i] = sum / L[i][i]
		}
	}
	return x
}
