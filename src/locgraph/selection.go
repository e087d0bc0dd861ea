package locgraph

// Selection records how a call marker group has been selected by the user.
// A group is only shown once it has been selected along every criterion.
type Selection uint8

const (
	// SelectType is set when the group's call type is enabled.
	SelectType Selection = 1 << iota
	// SelectJudge is set when the group's judge is in the shown set.
	SelectJudge
	// SelectAthlete is set when the group's athlete is in the shown set.
	SelectAthlete
)

const (
	// SelectNone is the zero selection.
	SelectNone Selection = 0
	// SelectAll is the full selection across all three criteria.
	SelectAll = SelectType | SelectJudge | SelectAthlete
)

// With returns the selection with bit set. Idempotent.
func (s Selection) With(bit Selection) Selection { return s | bit }

// Without returns the selection with bit cleared. Idempotent.
func (s Selection) Without(bit Selection) Selection { return s &^ bit }

// All reports whether every selection criterion is satisfied.
func (s Selection) All() bool { return s == SelectAll }
