package testutil

import "testing"

// Scenario runs Given/When/Then steps as subtests. Steps share state through
// closures, so once a step fails the remaining ones are skipped rather than
// failing on state the earlier step never produced.
type Scenario struct {
	t      *testing.T
	failed bool
}

func NewScenario(t *testing.T) *Scenario {
	return &Scenario{t: t}
}

func (s *Scenario) Given(desc string, fn func(t *testing.T)) *Scenario {
	return s.step("Given "+desc, fn)
}

func (s *Scenario) When(desc string, fn func(t *testing.T)) *Scenario {
	return s.step("When "+desc, fn)
}

func (s *Scenario) Then(desc string, fn func(t *testing.T)) *Scenario {
	return s.step("Then "+desc, fn)
}

func (s *Scenario) step(name string, fn func(t *testing.T)) *Scenario {
	s.t.Helper()
	ok := s.t.Run(name, func(t *testing.T) {
		if s.failed {
			t.Skip("earlier step failed")
		}
		fn(t)
	})
	if !ok {
		s.failed = true
	}
	return s
}
