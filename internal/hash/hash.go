package hash

import "golang.org/x/crypto/bcrypt"

const (
	DefaultCost = 12
	MinCost     = 10
)

type Hasher struct {
	cost int
}

// New returns a bcrypt hasher. Zero means DefaultCost; other costs below MinCost are raised to MinCost.
func New(cost int) *Hasher {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < MinCost {
		cost = MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Cost() int { return h.cost }

func (h *Hasher) HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashbytes), nil
}

// CheckPassword reports whether password matches hash. A malformed hash is a mismatch.
func (h *Hasher) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
