package testutil

import "testing"

// Given, When and Then nest subtests so a failing reconciliation case reads as
// a scenario: "Given a full license/When the quantity drops/Then ...".
func Given(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return scenarioStep(t, "Given", desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return scenarioStep(t, "When", desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return scenarioStep(t, "Then", desc, fn)
}

func scenarioStep(t *testing.T, keyword, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return t.Run(keyword+" "+desc, fn)
}
