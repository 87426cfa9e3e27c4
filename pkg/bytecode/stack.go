package bytecode

import "fmt"

// operandStack is the VM's LIFO of integers. Operations that need n
// values check with require before mutating anything.
type operandStack struct {
	values   []int64
	maxDepth int // 0 = unbounded
}

func (s *operandStack) len() int {
	return len(s.values)
}

func (s *operandStack) require(n int) error {
	if len(s.values) < n {
		return fmt.Errorf("%w: need %d, have %d", ErrStackUnderflow, n, len(s.values))
	}
	return nil
}

func (s *operandStack) push(v int64) error {
	if s.maxDepth > 0 && len(s.values) >= s.maxDepth {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, s.maxDepth)
	}
	s.values = append(s.values, v)
	return nil
}

func (s *operandStack) pop() (int64, error) {
	if err := s.require(1); err != nil {
		return 0, err
	}
	top := len(s.values) - 1
	v := s.values[top]
	s.values = s.values[:top]
	return v, nil
}

// peek returns the value n positions below the top (0 = top).
func (s *operandStack) peek(n int) (int64, error) {
	if err := s.require(n + 1); err != nil {
		return 0, err
	}
	return s.values[len(s.values)-1-n], nil
}

func (s *operandStack) snapshot() []int64 {
	cp := make([]int64, len(s.values))
	copy(cp, s.values)
	return cp
}

func (s *operandStack) reset() {
	s.values = s.values[:0]
}
