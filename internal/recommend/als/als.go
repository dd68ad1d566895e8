// Package als trains an implicit-feedback alternating-least-squares
// factorization over the interaction matrix and scores candidate items.
package als

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/smallbiznis/mensa/internal/recommend/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Training hyperparameters are fixed configuration, not runtime-tunable.
const (
	Factors        = 50
	Regularization = 0.01
	Iterations     = 15

	initScale = 0.01
	randSeed  = 42
)

var (
	// ErrUnknownUser signals a user with no row in the trained matrix.
	// Distinct from zero recommendations: the caller treats it as an
	// empty personalized result, not as fallback-worthy.
	ErrUnknownUser = errors.New("unknown_user")

	ErrEmptyMatrix = errors.New("empty_interaction_matrix")
)

// Scored is a candidate item position with its model score.
type Scored struct {
	Item  int
	Score float64
}

// Model holds the learned latent factors. Immutable after Train; safe
// for concurrent reads.
type Model struct {
	userFactors *mat.Dense
	itemFactors *mat.Dense
	nUsers      int
	nItems      int
}

// Train fits the factor model against a user-by-item count matrix. The
// solver works on the item-by-user orientation internally, so the input
// is transposed before fitting.
func Train(ui *matrix.CSR) (*Model, error) {
	nUsers, nItems := ui.Dims()
	if nUsers == 0 || nItems == 0 {
		return nil, ErrEmptyMatrix
	}

	iu := ui.T()

	rng := rand.New(rand.NewSource(randSeed))
	userFactors := randomFactors(nUsers, rng)
	itemFactors := randomFactors(nItems, rng)

	for it := 0; it < Iterations; it++ {
		if err := leastSquares(userFactors, itemFactors, ui); err != nil {
			return nil, fmt.Errorf("solve user factors (iteration %d): %w", it, err)
		}
		if err := leastSquares(itemFactors, userFactors, iu); err != nil {
			return nil, fmt.Errorf("solve item factors (iteration %d): %w", it, err)
		}
	}

	return &Model{
		userFactors: userFactors,
		itemFactors: itemFactors,
		nUsers:      nUsers,
		nItems:      nItems,
	}, nil
}

// Users returns the number of user rows the model was trained with.
func (m *Model) Users() int { return m.nUsers }

// Items returns the number of item columns the model was trained with.
func (m *Model) Items() int { return m.nItems }

// Recommend scores every item not in excluded against the user's latent
// vector and returns up to n candidates, highest score first. Callers
// over-fetch here because post-filtering happens above this layer.
func (m *Model) Recommend(userRow, n int, excluded map[int]struct{}) ([]Scored, error) {
	if userRow < 0 || userRow >= m.nUsers {
		return nil, ErrUnknownUser
	}

	xu := m.userFactors.RawRowView(userRow)
	scored := make([]Scored, 0, m.nItems)
	for j := 0; j < m.nItems; j++ {
		if _, skip := excluded[j]; skip {
			continue
		}
		scored = append(scored, Scored{
			Item:  j,
			Score: floats.Dot(xu, m.itemFactors.RawRowView(j)),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Item < scored[j].Item
	})

	if n > 0 && len(scored) > n {
		scored = scored[:n]
	}
	return scored, nil
}

// leastSquares updates target so that each of its rows minimizes the
// regularized implicit-feedback objective given the fixed source
// factors. counts holds one row per target row; a stored count r maps
// to confidence c = 1 + r with binary preference.
func leastSquares(target, source *mat.Dense, counts *matrix.CSR) error {
	rows, _ := counts.Dims()

	// Gram matrix source^T source is shared across all rows.
	var gram mat.Dense
	gram.Mul(source.T(), source)

	f := Factors
	symData := make([]float64, f*f)
	bData := make([]float64, f)
	xVec := mat.NewVecDense(f, nil)

	for r := 0; r < rows; r++ {
		for i := 0; i < f; i++ {
			for j := 0; j < f; j++ {
				symData[i*f+j] = gram.At(i, j)
			}
			symData[i*f+i] += Regularization
			bData[i] = 0
		}

		counts.Row(r, func(col int, count float64) {
			s := source.RawRowView(col)
			confidence := 1 + count
			for i := 0; i < f; i++ {
				si := s[i]
				bData[i] += confidence * si
				scaled := (confidence - 1) * si
				for j := 0; j < f; j++ {
					symData[i*f+j] += scaled * s[j]
				}
			}
		})

		var chol mat.Cholesky
		if ok := chol.Factorize(mat.NewSymDense(f, symData)); !ok {
			return errors.New("normal equations not positive definite")
		}
		if err := chol.SolveVecTo(xVec, mat.NewVecDense(f, bData)); err != nil {
			return err
		}
		target.SetRow(r, xVec.RawVector().Data)
	}

	return nil
}

func randomFactors(rows int, rng *rand.Rand) *mat.Dense {
	data := make([]float64, rows*Factors)
	for i := range data {
		data[i] = rng.NormFloat64() * initScale
	}
	return mat.NewDense(rows, Factors, data)
}
