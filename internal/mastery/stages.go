package mastery

import (
	"fmt"
	"strings"
	"time"
)

// Stage is the recall stage of one learnable item. Stages are strictly
// ordered; the index in stageOrder is the only ordering the scheduler uses.
type Stage string

const (
	StageNew      Stage = "NEW"
	StageD1       Stage = "D1"
	StageD3       Stage = "D3"
	StageD7       Stage = "D7"
	StageD14      Stage = "D14"
	StageD30      Stage = "D30"
	StageD60      Stage = "D60"
	StageMastered Stage = "MASTERED"
)

var stageOrder = []Stage{
	StageNew, StageD1, StageD3, StageD7, StageD14, StageD30, StageD60, StageMastered,
}

// Review intervals in days, aligned with stageOrder.
var stageIntervalDays = []int{0, 1, 3, 7, 14, 30, 60, 180}

type Grade string

const (
	GradeFail Grade = "FAIL"
	GradeHard Grade = "HARD"
	GradeOK   Grade = "OK"
	GradeEasy Grade = "EASY"
)

func ParseGrade(s string) (Grade, error) {
	switch Grade(strings.ToUpper(strings.TrimSpace(s))) {
	case GradeFail:
		return GradeFail, nil
	case GradeHard:
		return GradeHard, nil
	case GradeOK:
		return GradeOK, nil
	case GradeEasy:
		return GradeEasy, nil
	default:
		return "", fmt.Errorf("unknown grade %q", s)
	}
}

func ParseStage(s string) (Stage, error) {
	for _, st := range stageOrder {
		if string(st) == strings.ToUpper(strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q", s)
}

func stageIndex(s Stage) int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return 0
}

// IntervalDays returns the review interval for a stage.
func IntervalDays(s Stage) int {
	return stageIntervalDays[stageIndex(s)]
}

// Result of applying one attempt grade to an item.
type Result struct {
	Stage  Stage
	DueAt  time.Time
	Lapsed bool
}

// Apply advances or regresses an item per the fixed schedule:
//
//	FAIL: full reset to D1 (not one step back), lapse, due tomorrow.
//	HARD: one stage back, floored at D1, due at that stage's interval.
//	OK:   one stage forward, clamped at MASTERED.
//	EASY: two stages forward, clamped at MASTERED.
func Apply(current Stage, grade Grade, now time.Time) Result {
	idx := stageIndex(current)
	last := len(stageOrder) - 1

	switch grade {
	case GradeFail:
		next := StageD1
		return Result{
			Stage:  next,
			DueAt:  now.AddDate(0, 0, IntervalDays(next)),
			Lapsed: true,
		}
	case GradeHard:
		nextIdx := idx - 1
		if nextIdx < 1 {
			nextIdx = 1
		}
		next := stageOrder[nextIdx]
		return Result{Stage: next, DueAt: now.AddDate(0, 0, IntervalDays(next))}
	case GradeEasy:
		nextIdx := idx + 2
		if nextIdx > last {
			nextIdx = last
		}
		next := stageOrder[nextIdx]
		return Result{Stage: next, DueAt: now.AddDate(0, 0, IntervalDays(next))}
	default: // OK
		nextIdx := idx + 1
		if nextIdx > last {
			nextIdx = last
		}
		next := stageOrder[nextIdx]
		return Result{Stage: next, DueAt: now.AddDate(0, 0, IntervalDays(next))}
	}
}

// Delta is the contribution of one attempt to the aggregate mastery scalar,
// in percentage points. The caller owns clamping the scalar to 0..1.
func Delta(grade Grade) float64 {
	switch grade {
	case GradeFail:
		return -20
	case GradeHard:
		return -5
	case GradeEasy:
		return 15
	default:
		return 10
	}
}
