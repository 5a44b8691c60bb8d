// Package behavior holds the states of a TokWorld character: the decision
// branch (rest, work, entertainment) and the body branch (mouth, hands,
// stomach). Register binds them into a registry under the names used by
// charts.
package behavior
