package budget

import (
	"math"
	"time"

	"github.com/pocketbook/pocketbook/pkg/category"
	"github.com/pocketbook/pocketbook/pkg/period"
	"github.com/pocketbook/pocketbook/pkg/transaction"
)

type State string

const (
	StateGood      State = "good"
	StateCaution   State = "caution"
	StateAlert     State = "alert"
	StateCompleted State = "completed"
	StateExceeded  State = "exceeded"
)

type Color string

const (
	Green  Color = "green"
	Amber  Color = "amber"
	Orange Color = "orange"
	Cyan   Color = "cyan"
	Red    Color = "red"
)

var stateColors = map[State]Color{
	StateGood:      Green,
	StateCaution:   Amber,
	StateAlert:     Orange,
	StateCompleted: Cyan,
	StateExceeded:  Red,
}

func (s State) Color() Color {
	return stateColors[s]
}

const (
	goodLimit       = 50.0
	cautionLimit    = 80.0
	completedLower  = 99.5
	completedUpper  = 100.5
	aggregateTarget = 100.0
)

type MessageKind string

const (
	Remaining     MessageKind = "remaining"
	TotalSpent    MessageKind = "totalSpent"
	ExceededBy    MessageKind = "exceededBy"
	Pending       MessageKind = "pending"
	TotalReceived MessageKind = "totalReceived"
	SurpassedBy   MessageKind = "surpassedBy"
)

// Message is the display hint of a status. Amount is raw; formatting and
// translation belong to the caller.
type Message struct {
	Kind   MessageKind
	Amount float64
}

// Completed messages are shown with a check mark.
func (m Message) Completed() bool {
	return m.Kind == TotalSpent || m.Kind == TotalReceived
}

type Status struct {
	Budget           Budget
	Actual           float64
	PercentageRaw    float64
	PercentageCapped float64
	Difference       float64
	ExceededBy       float64
	State            State
	Color            Color
	Message          Message
}

type Evaluation struct {
	Type            transaction.Type
	Statuses        []Status
	TotalPlanned    float64
	TotalActual     float64
	TotalPercentage float64
	State           State
	Color           Color
}

// Evaluate computes the status of every active budget of txType against
// per-category totals keyed by category.Key. Inactive budgets and budgets of
// other types are skipped.
func Evaluate(budgets []Budget, txType transaction.Type, totals map[string]float64) Evaluation {
	evaluation := Evaluation{Type: txType, Statuses: make([]Status, 0, len(budgets))}
	for _, b := range budgets {
		if !b.Active || b.Type != txType {
			continue
		}
		status := evaluateOne(b, totals[category.Key(b.Category)])
		evaluation.Statuses = append(evaluation.Statuses, status)
		evaluation.TotalPlanned += b.PlannedAmount
		evaluation.TotalActual += status.Actual
	}
	if evaluation.TotalPlanned > 0 {
		evaluation.TotalPercentage = evaluation.TotalActual / evaluation.TotalPlanned * 100
	}
	evaluation.State = classifyAggregate(evaluation.TotalPercentage)
	evaluation.Color = evaluation.State.Color()
	return evaluation
}

// EvaluateCurrentMonth evaluates budgets against transactions of txType dated in
// now's calendar month, whatever period is shown elsewhere.
func EvaluateCurrentMonth(budgets []Budget, txType transaction.Type, transactions []transaction.Transaction, now time.Time) Evaluation {
	sameType := make([]transaction.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Type == txType {
			sameType = append(sameType, t)
		}
	}
	month := period.Filter(sameType, period.CurrentMonth(now), now)
	return Evaluate(budgets, txType, category.Totals(month.Records))
}

func evaluateOne(b Budget, actual float64) Status {
	planned := b.PlannedAmount
	raw := 0.0
	if planned > 0 {
		raw = actual / planned * 100
	}
	state := classify(raw)
	status := Status{
		Budget:           b,
		Actual:           actual,
		PercentageRaw:    raw,
		PercentageCapped: math.Min(raw, 100),
		Difference:       planned - actual,
		ExceededBy:       math.Max(actual-planned, 0),
		State:            state,
		Color:            state.Color(),
	}
	status.Message = message(b.Type, status)
	return status
}

func classify(percentage float64) State {
	switch {
	case percentage >= completedLower && percentage <= completedUpper:
		return StateCompleted
	case percentage <= goodLimit:
		return StateGood
	case percentage <= cautionLimit:
		return StateCaution
	case percentage < completedLower:
		return StateAlert
	default:
		return StateExceeded
	}
}

func classifyAggregate(percentage float64) State {
	switch {
	case percentage <= goodLimit:
		return StateGood
	case percentage <= cautionLimit:
		return StateCaution
	case percentage <= aggregateTarget:
		return StateAlert
	default:
		return StateExceeded
	}
}

func message(txType transaction.Type, s Status) Message {
	income := txType == transaction.Income
	switch s.State {
	case StateCompleted:
		if income {
			return Message{Kind: TotalReceived, Amount: s.Actual}
		}
		return Message{Kind: TotalSpent, Amount: s.Actual}
	case StateExceeded:
		if income {
			return Message{Kind: SurpassedBy, Amount: s.ExceededBy}
		}
		return Message{Kind: ExceededBy, Amount: s.ExceededBy}
	}
	if income {
		return Message{Kind: Pending, Amount: s.Difference}
	}
	return Message{Kind: Remaining, Amount: s.Difference}
}
