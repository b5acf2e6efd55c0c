package dyn4go

import (
	"sort"

	"go.uber.org/zap"
)

// FallbackCondition decides whether a convex pair must be routed to the
// fallback detector instead of the primary one.
type FallbackCondition interface {
	// IsMatch returns true if the given pair must use the fallback
	// detector. The argument order does not matter.
	IsMatch(convex1, convex2 Convex) bool
	// GetSortIndex returns the evaluation priority of this condition,
	// lower indexes are evaluated first. The index only orders
	// conditions, it is never used as an equality.
	GetSortIndex() int
}

// SingleTypedFallbackCondition matches any pair in which either shape
// carries the given type tag. A strict condition requires the exact
// tag, a non strict one accepts any member of the tag family.
type SingleTypedFallbackCondition struct {
	shapeType ShapeType
	strict    bool
	sortIndex int
}

// NewSingleTypedFallbackCondition creates a condition on one shape
// type.
func NewSingleTypedFallbackCondition(shapeType ShapeType, strict bool, sortIndex int) *SingleTypedFallbackCondition {
	return &SingleTypedFallbackCondition{shapeType: shapeType, strict: strict, sortIndex: sortIndex}
}

func (c *SingleTypedFallbackCondition) matches(t ShapeType) bool {
	if c.strict {
		return t == c.shapeType
	}
	return t.IsMemberOf(c.shapeType)
}

// IsMatch returns true if either shape matches the condition type.
func (c *SingleTypedFallbackCondition) IsMatch(convex1, convex2 Convex) bool {
	return c.matches(convex1.GetType()) || c.matches(convex2.GetType())
}

// GetSortIndex returns the evaluation priority.
func (c *SingleTypedFallbackCondition) GetSortIndex() int {
	return c.sortIndex
}

// PairwiseTypedFallbackCondition matches a specific pair of type tags
// in either argument order, with per side strict or family matching.
type PairwiseTypedFallbackCondition struct {
	type1     ShapeType
	strict1   bool
	type2     ShapeType
	strict2   bool
	sortIndex int
}

// NewPairwiseTypedFallbackCondition creates a condition on a pair of
// shape types.
func NewPairwiseTypedFallbackCondition(type1 ShapeType, strict1 bool, type2 ShapeType, strict2 bool, sortIndex int) *PairwiseTypedFallbackCondition {
	return &PairwiseTypedFallbackCondition{
		type1:     type1,
		strict1:   strict1,
		type2:     type2,
		strict2:   strict2,
		sortIndex: sortIndex,
	}
}

func (c *PairwiseTypedFallbackCondition) matches1(t ShapeType) bool {
	if c.strict1 {
		return t == c.type1
	}
	return t.IsMemberOf(c.type1)
}

func (c *PairwiseTypedFallbackCondition) matches2(t ShapeType) bool {
	if c.strict2 {
		return t == c.type2
	}
	return t.IsMemberOf(c.type2)
}

// IsMatch returns true if the pair matches the condition types in
// either order.
func (c *PairwiseTypedFallbackCondition) IsMatch(convex1, convex2 Convex) bool {
	t1 := convex1.GetType()
	t2 := convex2.GetType()
	return (c.matches1(t1) && c.matches2(t2)) ||
		(c.matches1(t2) && c.matches2(t1))
}

// GetSortIndex returns the evaluation priority.
func (c *PairwiseTypedFallbackCondition) GetSortIndex() int {
	return c.sortIndex
}

// FallbackNarrowphaseDetector delegates detection to a primary
// detector unless one of its conditions matches the pair, in which
// case the fallback detector runs instead. The usual wiring is SAT as
// the primary with GJK as the fallback for the ellipse family.
type FallbackNarrowphaseDetector struct {
	primary    NarrowphaseDetector
	fallback   NarrowphaseDetector
	conditions []FallbackCondition
}

// NewFallbackNarrowphaseDetector creates a detector delegating between
// the two given detectors.
func NewFallbackNarrowphaseDetector(primary, fallback NarrowphaseDetector) (*FallbackNarrowphaseDetector, error) {
	if primary == nil || fallback == nil {
		return nil, ErrNilArgument
	}
	return &FallbackNarrowphaseDetector{primary: primary, fallback: fallback}, nil
}

// SetLogger propagates the given logger to the wrapped detectors that
// accept one.
func (d *FallbackNarrowphaseDetector) SetLogger(log *zap.Logger) {
	if l, ok := d.primary.(interface{ SetLogger(*zap.Logger) }); ok {
		l.SetLogger(log)
	}
	if l, ok := d.fallback.(interface{ SetLogger(*zap.Logger) }); ok {
		l.SetLogger(log)
	}
}

// AddCondition adds the given condition, keeping the condition list
// ordered by sort index. Conditions with equal indexes keep their
// insertion order.
func (d *FallbackNarrowphaseDetector) AddCondition(condition FallbackCondition) error {
	if condition == nil {
		return ErrNilArgument
	}
	d.conditions = append(d.conditions, condition)
	sort.SliceStable(d.conditions, func(i, j int) bool {
		return d.conditions[i].GetSortIndex() < d.conditions[j].GetSortIndex()
	})
	return nil
}

// GetConditionCount returns the number of conditions.
func (d *FallbackNarrowphaseDetector) GetConditionCount() int {
	return len(d.conditions)
}

// IsFallbackRequired returns true if any condition matches the given
// pair.
func (d *FallbackNarrowphaseDetector) IsFallbackRequired(convex1, convex2 Convex) bool {
	for _, condition := range d.conditions {
		if condition.IsMatch(convex1, convex2) {
			return true
		}
	}
	return false
}

// Detect routes the pair to the fallback detector when a condition
// matches, otherwise to the primary detector.
func (d *FallbackNarrowphaseDetector) Detect(convex1 Convex, transform1 *Transform, convex2 Convex, transform2 *Transform, penetration *Penetration) (bool, error) {
	if d.IsFallbackRequired(convex1, convex2) {
		return d.fallback.Detect(convex1, transform1, convex2, transform2, penetration)
	}
	return d.primary.Detect(convex1, transform1, convex2, transform2, penetration)
}
